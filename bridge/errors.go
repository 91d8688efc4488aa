package bridge

import "errors"

var (
	ErrOutOfTurn    = errors.New("action out of turn")
	ErrWrongPhase   = errors.New("action not valid in this phase")
	ErrCardNotHeld  = errors.New("card not in hand")
	ErrRevoke       = errors.New("must follow suit")
	ErrTrickFull    = errors.New("trick already complete")
	ErrTrickPartial = errors.New("trick not complete")
	ErrIllegalBid   = errors.New("illegal bid")
	ErrSeatTaken    = errors.New("seat already taken")
	ErrSeatEmpty    = errors.New("seat not occupied by a player")
)
