package models

// Country is one row of the country master. IDs are surrogate keys assigned
// from catalog load order and stay stable across reloads as long as the master
// file order is stable.
type Country struct {
	ID      int32  `json:"id"`
	Name    string `json:"name"`
	ISOCode string `json:"iso_code"`
}
