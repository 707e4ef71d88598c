package common

import "encoding/json"

// IsStatusResponse checks if the response body is a status object rather than results
func IsStatusResponse(bodyBytes []byte) (bool, string, string) {
	var statusResp StatusResponse

	if err := json.Unmarshal(bodyBytes, &statusResp); err != nil {
		return false, "", ""
	}

	if statusResp.Status != "" {
		return true, statusResp.Status, statusResp.Message
	}

	return false, "", ""
}

// Min returns the smaller of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// MaskAPIKey masks a credential for log output
func MaskAPIKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// EstimateTokens approximates a token count from text length. The BrightData
// datasets return answer text without usage numbers, so cost accounting for
// those providers runs on this estimate.
func EstimateTokens(text string) int {
	return len(text) / 4
}
