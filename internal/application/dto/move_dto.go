package dto

import "encoding/json"

// MoveAnimalRequest cuerpo de POST /api/animals/:id/move. kennel_id null = retirar de canil.
type MoveAnimalRequest struct {
	KennelID      *string `json:"kennel_id"`
	Reason        string  `json:"reason"`
	Notes         string  `json:"notes"`
	AllowOverflow bool    `json:"allow_overflow"`
}

// MoveAnimalResponse resultado del movimiento. La forma JSON depende de Status.
type MoveAnimalResponse struct {
	Status   string
	AnimalID string
	KennelID string  // noop
	From     *string // removed, moved
	To       string  // moved
	Occupied int     // moved
	Capacity int     // moved
	StayID   string  // moved
	Overflow bool    // moved
}

// MarshalJSON emite solo los campos de cada estado:
//
//	noop:    {status, animal_id, kennel_id}
//	removed: {status, animal_id, from}
//	moved:   {status, animal_id, from, to, occupied, capacity, stay_id, overflow}
func (r MoveAnimalResponse) MarshalJSON() ([]byte, error) {
	switch r.Status {
	case "noop":
		return json.Marshal(struct {
			Status   string `json:"status"`
			AnimalID string `json:"animal_id"`
			KennelID string `json:"kennel_id"`
		}{r.Status, r.AnimalID, r.KennelID})
	case "removed":
		return json.Marshal(struct {
			Status   string  `json:"status"`
			AnimalID string  `json:"animal_id"`
			From     *string `json:"from"`
		}{r.Status, r.AnimalID, r.From})
	default:
		return json.Marshal(struct {
			Status   string  `json:"status"`
			AnimalID string  `json:"animal_id"`
			From     *string `json:"from"`
			To       string  `json:"to"`
			Occupied int     `json:"occupied"`
			Capacity int     `json:"capacity"`
			StayID   string  `json:"stay_id"`
			Overflow bool    `json:"overflow"`
		}{r.Status, r.AnimalID, r.From, r.To, r.Occupied, r.Capacity, r.StayID, r.Overflow})
	}
}
