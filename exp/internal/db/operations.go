package db

import (
	"database/sql"
	"fmt"
)

// InsertCarrier inserts or gets an existing carrier by source
func (d *DB) InsertCarrier(source string) (int64, error) {
	// Try to get existing
	var id int64
	err := d.db.QueryRow("SELECT id FROM carriers WHERE source = ?", source).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query carrier: %w", err)
	}

	// Insert new
	result, err := d.db.Exec("INSERT INTO carriers (source) VALUES (?)", source)
	if err != nil {
		return 0, fmt.Errorf("failed to insert carrier: %w", err)
	}
	return result.LastInsertId()
}

// InsertCarrierSize inserts or gets an existing carrier size
func (d *DB) InsertCarrierSize(carrierID int64, width, height int) (int64, error) {
	// Try to get existing
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM carrier_sizes WHERE carrier_id = ? AND width = ? AND height = ?",
		carrierID, width, height,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query carrier size: %w", err)
	}

	// Insert new
	result, err := d.db.Exec(
		"INSERT INTO carrier_sizes (carrier_id, width, height) VALUES (?, ?, ?)",
		carrierID, width, height,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert carrier size: %w", err)
	}
	return result.LastInsertId()
}

// InsertPayload inserts or gets an existing payload
func (d *DB) InsertPayload(content []byte, size int) (int64, error) {
	// Try to get existing
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM payloads WHERE content = ? AND size = ?",
		content, size,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query payload: %w", err)
	}

	// Insert new
	result, err := d.db.Exec(
		"INSERT INTO payloads (content, size) VALUES (?, ?)",
		content, size,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert payload: %w", err)
	}
	return result.LastInsertId()
}

// InsertArmoredPayload inserts or gets an existing armored payload
func (d *DB) InsertArmoredPayload(payloadID int64, transport string, size int, schemeName string) (int64, error) {
	// Try to get existing
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM armored_payloads WHERE payload_id = ? AND scheme_name = ?",
		payloadID, schemeName,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query armored payload: %w", err)
	}

	// Insert new
	result, err := d.db.Exec(
		"INSERT INTO armored_payloads (payload_id, transport, size, scheme_name) VALUES (?, ?, ?, ?)",
		payloadID, transport, size, schemeName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert armored payload: %w", err)
	}
	return result.LastInsertId()
}

// InsertScanParam inserts or gets existing scan parameters
func (d *DB) InsertScanParam(scanLimit, abortThreshold int) (int64, error) {
	// Try to get existing
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM scan_params WHERE scan_limit = ? AND abort_threshold = ?",
		scanLimit, abortThreshold,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query scan param: %w", err)
	}

	// Insert new
	result, err := d.db.Exec(
		"INSERT INTO scan_params (scan_limit, abort_threshold) VALUES (?, ?)",
		scanLimit, abortThreshold,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan param: %w", err)
	}
	return result.LastInsertId()
}

// InsertResult inserts a result (or updates if already exists)
func (d *DB) InsertResult(result *Result) (int64, error) {
	// Check if result already exists
	var existingID int64
	err := d.db.QueryRow(
		"SELECT id FROM results WHERE carrier_size_id = ? AND armored_payload_id = ? AND scan_param_id = ?",
		result.CarrierSizeID, result.ArmoredPayloadID, result.ScanParamID,
	).Scan(&existingID)

	if err == nil {
		// Update existing
		_, err = d.db.Exec(`
			UPDATE results SET
				original_image_path = ?,
				embed_image_path = ?,
				capacity_ratio = ?,
				capacity_bytes = ?,
				probability = ?,
				recovered = ?,
				success = ?,
				psnr = ?,
				duration_ms = ?
			WHERE id = ?`,
			result.OriginalImagePath,
			result.EmbedImagePath,
			result.CapacityRatio,
			result.CapacityBytes,
			result.Probability,
			result.Recovered,
			result.Success,
			result.PSNR,
			result.DurationMS,
			existingID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update result: %w", err)
		}
		return existingID, nil
	}

	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to query existing result: %w", err)
	}

	// Insert new
	res, err := d.db.Exec(`
		INSERT INTO results (
			carrier_size_id, armored_payload_id, scan_param_id,
			original_image_path, embed_image_path,
			capacity_ratio, capacity_bytes,
			probability, recovered, success, psnr, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.CarrierSizeID,
		result.ArmoredPayloadID,
		result.ScanParamID,
		result.OriginalImagePath,
		result.EmbedImagePath,
		result.CapacityRatio,
		result.CapacityBytes,
		result.Probability,
		result.Recovered,
		result.Success,
		result.PSNR,
		result.DurationMS,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert result: %w", err)
	}
	return res.LastInsertId()
}

// ResultExists reports whether a result row exists for the combination
func (d *DB) ResultExists(carrierSizeID, armoredPayloadID, scanParamID int64) (bool, error) {
	var id int64
	err := d.db.QueryRow(
		"SELECT id FROM results WHERE carrier_size_id = ? AND armored_payload_id = ? AND scan_param_id = ?",
		carrierSizeID, armoredPayloadID, scanParamID,
	).Scan(&id)
	if err == nil {
		return true, nil
	}
	if err == sql.ErrNoRows {
		return false, nil
	}
	return false, fmt.Errorf("failed to query result: %w", err)
}

// GetCarrier retrieves a carrier by ID
func (d *DB) GetCarrier(id int64) (*Carrier, error) {
	var c Carrier
	err := d.db.QueryRow("SELECT id, source FROM carriers WHERE id = ?", id).Scan(&c.ID, &c.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to get carrier: %w", err)
	}
	return &c, nil
}

// GetCarrierSize retrieves a carrier size by ID
func (d *DB) GetCarrierSize(id int64) (*CarrierSize, error) {
	var size CarrierSize
	err := d.db.QueryRow(
		"SELECT id, carrier_id, width, height FROM carrier_sizes WHERE id = ?", id,
	).Scan(&size.ID, &size.CarrierID, &size.Width, &size.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to get carrier size: %w", err)
	}
	return &size, nil
}

// GetScanParam retrieves scan parameters by ID
func (d *DB) GetScanParam(id int64) (*ScanParam, error) {
	var param ScanParam
	err := d.db.QueryRow(
		"SELECT id, scan_limit, abort_threshold FROM scan_params WHERE id = ?", id,
	).Scan(&param.ID, &param.ScanLimit, &param.AbortThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan param: %w", err)
	}
	return &param, nil
}

// ListCarriers retrieves all carriers
func (d *DB) ListCarriers() ([]*Carrier, error) {
	rows, err := d.db.Query("SELECT id, source FROM carriers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query carriers: %w", err)
	}
	defer rows.Close()

	var carriers []*Carrier
	for rows.Next() {
		var c Carrier
		if err := rows.Scan(&c.ID, &c.Source); err != nil {
			return nil, fmt.Errorf("failed to scan carrier: %w", err)
		}
		carriers = append(carriers, &c)
	}
	return carriers, rows.Err()
}

// ListCarrierSizes retrieves all sizes registered for a carrier
func (d *DB) ListCarrierSizes(carrierID int64) ([]*CarrierSize, error) {
	rows, err := d.db.Query(
		"SELECT id, carrier_id, width, height FROM carrier_sizes WHERE carrier_id = ? ORDER BY width * height",
		carrierID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query carrier sizes: %w", err)
	}
	defer rows.Close()

	var sizes []*CarrierSize
	for rows.Next() {
		var s CarrierSize
		if err := rows.Scan(&s.ID, &s.CarrierID, &s.Width, &s.Height); err != nil {
			return nil, fmt.Errorf("failed to scan carrier size: %w", err)
		}
		sizes = append(sizes, &s)
	}
	return sizes, rows.Err()
}

// ListPayloads retrieves all payloads
func (d *DB) ListPayloads() ([]*Payload, error) {
	rows, err := d.db.Query("SELECT id, content, size FROM payloads ORDER BY size")
	if err != nil {
		return nil, fmt.Errorf("failed to query payloads: %w", err)
	}
	defer rows.Close()

	var payloads []*Payload
	for rows.Next() {
		var p Payload
		if err := rows.Scan(&p.ID, &p.Content, &p.Size); err != nil {
			return nil, fmt.Errorf("failed to scan payload: %w", err)
		}
		payloads = append(payloads, &p)
	}
	return payloads, rows.Err()
}

// ListArmoredPayloads retrieves all armored variants of a payload
func (d *DB) ListArmoredPayloads(payloadID int64) ([]*ArmoredPayload, error) {
	rows, err := d.db.Query(
		"SELECT id, payload_id, transport, size, scheme_name FROM armored_payloads WHERE payload_id = ? ORDER BY id",
		payloadID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query armored payloads: %w", err)
	}
	defer rows.Close()

	var armored []*ArmoredPayload
	for rows.Next() {
		var a ArmoredPayload
		if err := rows.Scan(&a.ID, &a.PayloadID, &a.Transport, &a.Size, &a.SchemeName); err != nil {
			return nil, fmt.Errorf("failed to scan armored payload: %w", err)
		}
		armored = append(armored, &a)
	}
	return armored, rows.Err()
}

// ListScanParams retrieves all scan parameter combinations
func (d *DB) ListScanParams() ([]*ScanParam, error) {
	rows, err := d.db.Query("SELECT id, scan_limit, abort_threshold FROM scan_params ORDER BY scan_limit")
	if err != nil {
		return nil, fmt.Errorf("failed to query scan params: %w", err)
	}
	defer rows.Close()

	var params []*ScanParam
	for rows.Next() {
		var p ScanParam
		if err := rows.Scan(&p.ID, &p.ScanLimit, &p.AbortThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan scan param: %w", err)
		}
		params = append(params, &p)
	}
	return params, rows.Err()
}

// CountResults counts total results
func (d *DB) CountResults() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}
