package model

// Usuario is the authenticated backend user operating the station.
type Usuario struct {
	ID      int64  `json:"id"`
	Usuario string `json:"usuario"`
	Nombre  string `json:"nombre"`
	Rol     string `json:"rol"`
}
