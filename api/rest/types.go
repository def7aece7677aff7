package rest

// request and response types are defined below
// request fields are bound from the path, query string and headers by RegisterFunc

// OrgRequest selects the organization whose identity serves the request.
type OrgRequest struct {
	Org string `json:"-" header:"X-Org"`
}

type GetChainInfoRequest struct {
	OrgRequest
}

type GetStatsRequest struct {
	OrgRequest
}

type ListBlocksRequest struct {
	OrgRequest
	// From and To optionally bound the listing to blocks [From, To).
	From string `json:"-" query:"from"`
	To   string `json:"-" query:"to"`
}

type GetBlockRequest struct {
	OrgRequest
	Number string `json:"-" path:"number"`
}

type ListBlockTransactionsRequest struct {
	OrgRequest
	Number string `json:"-" path:"number"`
}

type ListTransactionsRequest struct {
	OrgRequest
}

type GetTransactionRequest struct {
	OrgRequest
	TxID string `json:"-" path:"txId"`
}

// Response wraps every successful result. Data is already projected and safe to encode.
type Response struct {
	Success bool   `json:"success"`
	Org     string `json:"org"`
	Data    any    `json:"data"`
}
