package ir

type (
	BlockID int32
	ValueID int32
)

const (
	NoBlockID BlockID = -1
	NoValueID ValueID = -1
)

func (id BlockID) IsValid() bool { return id >= 0 }
func (id ValueID) IsValid() bool { return id >= 0 }
