package dto

// Resource objeto "data" de un documento JSON:API.
type Resource struct {
	Type       string      `json:"type"`
	ID         int64       `json:"id"`
	Attributes interface{} `json:"attributes"`
}

// DataResponse documento JSON:API de éxito.
type DataResponse struct {
	Data Resource `json:"data"`
}

// ErrorObject elemento de "errors" en un documento JSON:API.
type ErrorObject struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Errors []ErrorObject `json:"errors"`
}
