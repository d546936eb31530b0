package db

const schema = `
-- Carriers table
CREATE TABLE IF NOT EXISTS carriers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL UNIQUE
);

-- Carrier sizes table
CREATE TABLE IF NOT EXISTS carrier_sizes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    carrier_id INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    FOREIGN KEY (carrier_id) REFERENCES carriers(id) ON DELETE CASCADE,
    UNIQUE(carrier_id, width, height)
);

-- Payloads table (original message)
CREATE TABLE IF NOT EXISTS payloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content BLOB NOT NULL,
    size INTEGER NOT NULL,
    UNIQUE(content, size)
);

-- Armored payloads table (transport text after armoring)
CREATE TABLE IF NOT EXISTS armored_payloads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    payload_id INTEGER NOT NULL,
    transport TEXT NOT NULL,
    size INTEGER NOT NULL,
    scheme_name TEXT NOT NULL,
    FOREIGN KEY (payload_id) REFERENCES payloads(id) ON DELETE CASCADE,
    UNIQUE(payload_id, scheme_name)
);

-- Scan parameters table (decoder search settings)
CREATE TABLE IF NOT EXISTS scan_params (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_limit INTEGER NOT NULL,
    abort_threshold INTEGER NOT NULL,
    UNIQUE(scan_limit, abort_threshold)
);

-- Results table
CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    carrier_size_id INTEGER NOT NULL,
    armored_payload_id INTEGER NOT NULL,
    scan_param_id INTEGER NOT NULL,

    original_image_path TEXT NOT NULL,
    embed_image_path TEXT NOT NULL,

    capacity_ratio REAL NOT NULL,
    capacity_bytes INTEGER NOT NULL,

    probability REAL NOT NULL,
    recovered BOOLEAN NOT NULL,
    success BOOLEAN NOT NULL,
    psnr REAL,
    duration_ms REAL NOT NULL,

    FOREIGN KEY (carrier_size_id) REFERENCES carrier_sizes(id) ON DELETE CASCADE,
    FOREIGN KEY (armored_payload_id) REFERENCES armored_payloads(id) ON DELETE CASCADE,
    FOREIGN KEY (scan_param_id) REFERENCES scan_params(id) ON DELETE CASCADE,
    UNIQUE(carrier_size_id, armored_payload_id, scan_param_id)
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_results_success ON results(success);
CREATE INDEX IF NOT EXISTS idx_results_capacity_ratio ON results(capacity_ratio);
CREATE INDEX IF NOT EXISTS idx_results_psnr ON results(psnr);
CREATE INDEX IF NOT EXISTS idx_results_probability ON results(probability);
CREATE INDEX IF NOT EXISTS idx_carrier_sizes_carrier ON carrier_sizes(carrier_id);
CREATE INDEX IF NOT EXISTS idx_carrier_sizes_dims ON carrier_sizes(width, height);
CREATE INDEX IF NOT EXISTS idx_armored_payloads_payload ON armored_payloads(payload_id);
CREATE INDEX IF NOT EXISTS idx_scan_params_limits ON scan_params(scan_limit, abort_threshold);

-- View for easy querying with all details
CREATE VIEW IF NOT EXISTS results_detailed AS
SELECT
    r.id,

    c.source as carrier_source,
    csz.width,
    csz.height,

    sp.scan_limit,
    sp.abort_threshold,

    ap.scheme_name as armor_scheme,
    ap.size as transport_size,
    p.size as payload_size,

    r.capacity_ratio,
    r.capacity_bytes,
    r.probability,
    r.recovered,
    r.success,
    r.psnr,
    r.duration_ms,
    r.original_image_path,
    r.embed_image_path
FROM results r
JOIN carrier_sizes csz ON r.carrier_size_id = csz.id
JOIN carriers c ON csz.carrier_id = c.id
JOIN armored_payloads ap ON r.armored_payload_id = ap.id
JOIN payloads p ON ap.payload_id = p.id
JOIN scan_params sp ON r.scan_param_id = sp.id;
`
