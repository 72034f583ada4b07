package v1

import (
	ez_uuid "github.com/college-budget/backend/internal/uuid"
)

type URIID struct {
	ID ez_uuid.UUID `uri:"id" binding:"required"` // The ID of the resource
}

type URIVersion struct {
	ID      ez_uuid.UUID `uri:"id" binding:"required"`      // The ID of the resource
	Version uint         `uri:"version" binding:"required"` // The history version
}

type Pagination struct {
	Count  int   `json:"count"`  // The amount of records returned in this response
	Offset uint  `json:"offset"` // The offset for the first record returned
	Limit  int   `json:"limit"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total"`  // The total number of resources matching the query
}
