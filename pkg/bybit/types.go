package bybit

import "encoding/json"

// BybitResponse represents a generic response from Bybit's V5 REST API.
// This structure covers the standard response envelope used across all endpoints.
type BybitResponse struct {
	RetCode    int                    `json:"retCode"`    // 0 means success; non-zero indicates an error code
	RetMsg     string                 `json:"retMsg"`     // Human-readable message describing the result or error
	Result     json.RawMessage        `json:"result"`     // Delay decoding // Main response payload (varies per endpoint)
	RetExtInfo map[string]interface{} `json:"retExtInfo"` // Optional extra info (e.g. rate limits, error hints)
	Time       int64                  `json:"time"`       // Server timestamp (in milliseconds since epoch)
}

type OpenInterestResponse struct {
	Category       string `json:"category"` // e.g., "inverse", "linear"
	Symbol         string `json:"symbol"`
	NextPageCursor string `json:"nextPageCursor"`
	List           []struct {
		OpenInterest string `json:"openInterest"`
		Timestamp    string `json:"timestamp"` // ms since epoch, as string
	} `json:"list"`
}

type FundingHistoryResponse struct {
	Category string `json:"category"`
	List     []struct {
		Symbol               string `json:"symbol"`
		FundingRate          string `json:"fundingRate"`
		FundingRateTimestamp string `json:"fundingRateTimestamp"`
	} `json:"list"`
}

// OpenInterestSamples is how many open interest buckets GetDerivatives averages.
const OpenInterestSamples = 12

// Derivatives is the open interest and funding rate for one contract.
type Derivatives struct {
	OpenInterest        float64 // newest bucket
	OpenInterestAverage float64 // mean over the fetched buckets
	FundingRate         float64
}
