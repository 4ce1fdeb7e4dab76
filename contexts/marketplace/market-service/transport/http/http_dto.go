package httptransport

type CreateCollectionRequest struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	ImageURI string `json:"image_uri"`
}

type CreateCollectionResponse struct {
	RegistryRef string `json:"registry_ref"`
}

type CreateListingRequest struct {
	RegistryRef string `json:"registry_ref"`
	TokenID     uint64 `json:"token_id"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
}

type ListingDTO struct {
	ListingID   uint64 `json:"listing_id"`
	RegistryRef string `json:"registry_ref"`
	TokenID     uint64 `json:"token_id"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	Seller      string `json:"seller"`
	Sold        bool   `json:"sold"`
	CreatedAt   string `json:"created_at"`
}

type CreateListingResponse struct {
	Listing ListingDTO `json:"listing"`
}

type GetListingResponse struct {
	Listing ListingDTO `json:"listing"`
}

type ListListingsResponse struct {
	Items []ListingDTO `json:"items"`
}

type BuyItemRequest struct {
	Payment int64 `json:"payment"`
}

type BuyItemResponse struct {
	Listing ListingDTO `json:"listing"`
	Buyer   string     `json:"buyer"`
}

type DepositRequest struct {
	Amount int64 `json:"amount"`
}

type BalanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
