package station

import "errors"

var (
	ErrSlotOutOfRange     = errors.New("slot out of range")
	ErrNoPillarOpen       = errors.New("no pillar is open")
	ErrSuperseded         = errors.New("response superseded by a newer request")
	ErrNoDestination      = errors.New("choose a destination station")
	ErrEmptySelection     = errors.New("select at least one battery")
	ErrMixedSourceStation = errors.New("selected batteries belong to more than one station; filter by source station first")
	ErrUnknownSource      = errors.New("cannot determine the source station of the selection")
	ErrSameStation        = errors.New("source and destination station must differ")
)
