package dto

// ClientSearchQuery searches clients by name and/or phone.
type ClientSearchQuery struct {
	Nombre  string `query:"nombre" validate:"max=200"`
	Celular string `query:"celular" validate:"max=30"`
}

// StatsQuery selects the dashboard date range.
type StatsQuery struct {
	StartDate string `query:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"required,datetime=2006-01-02"`
}
