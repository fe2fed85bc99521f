package domain

type ShipType struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

type Port struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

type Ship struct {
	ID         int32  `json:"id"`
	PartnerID  int32  `json:"partner_id"`
	ShipTypeID int32  `json:"ship_type_id"`
	PortID     int32  `json:"port_id"`
	Name       string `json:"name"`
	Capacity   int32  `json:"capacity"`
}
