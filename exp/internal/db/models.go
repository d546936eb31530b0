package db

type (
	// Carrier represents a carrier source (synthetic name or photo URL)
	Carrier struct {
		ID     int64
		Source string // Unique constraint
	}

	// CarrierSize represents resized dimensions
	CarrierSize struct {
		ID        int64
		CarrierID int64
		Width     int
		Height    int
		// Unique constraint on (CarrierID, Width, Height)
	}

	// Payload represents original message data
	Payload struct {
		ID      int64
		Content []byte // Use []byte for binary data
		Size    int    // Byte length
	}

	// ArmoredPayload represents the transport text after armoring
	ArmoredPayload struct {
		ID         int64
		PayloadID  int64
		Transport  string
		Size       int // Byte length of the transport text
		SchemeName string
		// Unique constraint on (PayloadID, SchemeName)
	}

	// ScanParam represents decoder search settings
	ScanParam struct {
		ID             int64
		ScanLimit      int
		AbortThreshold int
		// Unique constraint on (ScanLimit, AbortThreshold)
	}

	// Result represents test outcome
	Result struct {
		ID               int64
		CarrierSizeID    int64
		ArmoredPayloadID int64
		ScanParamID      int64

		// Paths
		OriginalImagePath string
		EmbedImagePath    string

		// Computed fields (can be calculated from relations)
		CapacityRatio float64 // TransportSize / CapacityBytes
		CapacityBytes int     // Width * Height * 3 / 8 minus the terminator

		// Evaluation metrics
		Probability float64
		Recovered   bool
		Success     bool
		PSNR        float64
		DurationMS  float64

		// Unique constraint on (CarrierSizeID, ArmoredPayloadID, ScanParamID)
	}
)
