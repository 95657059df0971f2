package logic

import "github.com/Mykhailo-Tr/AesCrypt/internal/encryption"

// BatchReport aggregates the results of one batch run. It is built once by
// folding results in file order and never mutated afterwards.
type BatchReport struct {
	Total      int `json:"total_files"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`

	// Size totals count successful operations only, so failed entries
	// contribute zero rather than an undefined value.
	TotalOriginalSize  int64 `json:"total_original_size"`
	TotalEncryptedSize int64 `json:"total_encrypted_size"`

	Operations []encryption.OperationResult `json:"operations"`
}

func fold(results []encryption.OperationResult) *BatchReport {
	report := &BatchReport{Total: len(results), Operations: results}

	for _, result := range results {
		if result.Success {
			report.Successful++
			report.TotalOriginalSize += result.OriginalSize
			report.TotalEncryptedSize += result.EncryptedSize
		} else {
			report.Failed++
		}
	}

	return report
}
