package model

import "encoding/json"

// ServicePackage is a service offering a photographer advertises, priced
// per package with a nominal coverage duration.
type ServicePackage struct {
	ID             string  `json:"id"`
	PhotographerID string  `json:"photographer_id" validate:"required"`
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Description    string  `json:"description" validate:"omitempty,max=1000"`
	Price          float64 `json:"price" validate:"min=0"`
	Category       string  `json:"category" validate:"required,oneof=WEDDING PORTRAIT EVENT COMMERCIAL OTHER"`
	DurationHours  int     `json:"duration_hours" validate:"required,min=1,max=24"`
	Active         bool    `json:"active"`
}

func (p *ServicePackage) MarshalLine() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func UnmarshalServicePackageLine(line string) (*ServicePackage, error) {
	var p ServicePackage
	if err := json.Unmarshal([]byte(line), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
