package httptransport

type MintRequest struct {
	URI         string `json:"uri"`
	RoyaltyRate int    `json:"royalty_rate"`
}

type TokenDTO struct {
	TokenID         uint64 `json:"token_id"`
	RegistryRef     string `json:"registry_ref"`
	URI             string `json:"uri,omitempty"`
	Owner           string `json:"owner"`
	Creator         string `json:"creator"`
	RoyaltyRate     int    `json:"royalty_rate"`
	RoyaltyExcluded bool   `json:"royalty_excluded"`
	MintedAt        string `json:"minted_at"`
}

type MintResponse struct {
	Token       TokenDTO `json:"token"`
	MetadataURI string   `json:"metadata_uri"`
}

type SetExcludedRequest struct {
	Excluded bool `json:"excluded"`
}

type SetExcludedResponse struct {
	Token TokenDTO `json:"token"`
}

type RoyaltyResponse struct {
	Creator    string `json:"creator"`
	Amount     int    `json:"amount"`
	IsExcluded bool   `json:"is_excluded"`
}

type OwnerResponse struct {
	TokenID uint64 `json:"token_id"`
	Owner   string `json:"owner"`
}

type TokenURIResponse struct {
	TokenID     uint64 `json:"token_id"`
	MetadataURI string `json:"metadata_uri"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
