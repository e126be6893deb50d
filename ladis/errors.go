package ladis

// ProtocolError: intent not allowed for this phase or seat.
type ProtocolError string

func (e ProtocolError) Error() string { return string(e) }

// ValidationError: intent allowed but its content is illegal.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// CapacityError: room full or missing.
type CapacityError string

func (e CapacityError) Error() string { return string(e) }

// InternalError means an invariant broke; the room cannot continue.
type InternalError string

func (e InternalError) Error() string { return "internal inconsistency: " + string(e) }

func ErrInternal(msg string) error { return InternalError(msg) }

var (
	ErrWrongPhase     = ProtocolError("action not allowed in current phase")
	ErrOutOfTurn      = ProtocolError("not your turn")
	ErrNotHukumCaller = ProtocolError("you are not the hukum caller")
	ErrPlayerNotFound = ProtocolError("player not in room")
	ErrBenched        = ProtocolError("benched players cannot play this round")
	ErrAlreadySeated  = ProtocolError("player already seated")

	ErrInvalidBet     = ValidationError("bet must be one of 4, 8, 16, 32")
	ErrBetNotHigher   = ValidationError("bet must be higher than the current bet")
	ErrCardNotInHand  = ValidationError("card not in hand")
	ErrMustFollowSuit = ValidationError("must follow the lead suit")
	ErrInvalidSuit    = ValidationError("invalid suit")

	ErrRoomFull     = CapacityError("room is full")
	ErrRoomNotFound = CapacityError("room not found")
	ErrRoomClosed   = CapacityError("room closed")
)
