package server

import "github.com/chazu/cabinetcut/pkg/cabinet"

// cabinetRequest describes one cabinet. Omitted dimensions fall back to the
// type's defaults and an omitted door count is derived from the length.
// Domain rules such as positive dimensions are checked by the calculator so
// their field errors keep the same shape for every caller.
type cabinetRequest struct {
	Type            cabinet.Type            `json:"type" validate:"required"`
	Length          float64                 `json:"length" validate:"required"`
	Height          *float64                `json:"height,omitempty"`
	Depth           *float64                `json:"depth,omitempty"`
	Shelves         int                     `json:"shelves" validate:"min=0,max=50"`
	DoorCount       *int                    `json:"doorCount,omitempty" validate:"omitempty,min=1,max=50"`
	DoorOrientation cabinet.DoorOrientation `json:"doorOrientation,omitempty"`
	DoorDivision    cabinet.DoorDivision    `json:"doorDivision,omitempty"`
	HandleType      cabinet.HandleType      `json:"handleType,omitempty"`
	BackConnection  cabinet.BackConnection  `json:"backConnection,omitempty"`
}

func (r cabinetRequest) config() cabinet.Config {
	cfg := cabinet.New(r.Type, r.Length)
	if r.Height != nil {
		cfg.Height = *r.Height
	}
	if r.Depth != nil {
		cfg.Depth = *r.Depth
	}
	cfg.IncludeShelf = r.Shelves > 0
	cfg.ShelfCount = r.Shelves
	if r.DoorOrientation != "" {
		cfg.DoorOrientation = r.DoorOrientation
	}
	if r.DoorDivision != "" {
		cfg.DoorDivision = r.DoorDivision
	}
	if r.HandleType != "" {
		cfg.HandleType = r.HandleType
	}
	if r.BackConnection != "" {
		cfg.BackConnection = r.BackConnection
	}
	if r.DoorCount != nil {
		cfg.DoorCount = *r.DoorCount
		cfg.DoorCountIsManual = true
	}
	return cfg.Resolve()
}

type scriptRequest struct {
	Source string `json:"source" validate:"required"`
}

type previewPreference struct {
	Show *bool `json:"show" validate:"required"`
}
