package diagnostics

// Error codes
const (
	// Input errors (I prefix)
	ErrInvalidInput     = "I0001"
	ErrSchemaViolation  = "I0002"
	ErrUndefinedValue   = "I0003"
	ErrRedeclaredValue  = "I0004"
	ErrInvalidTypeText  = "I0005"
	ErrUndefinedModule  = "I0006"
	ErrRedeclaredModule = "I0007"

	// Structural type errors (T prefix)
	ErrNotBundle        = "T0001"
	ErrUnknownField     = "T0002"
	ErrNotVector        = "T0003"
	ErrIndexOutOfBounds = "T0004"

	// Unsupported constructs (U prefix)
	ErrDynamicIndex = "U0001"

	// Verifier errors (V prefix)
	ErrConnectMismatch   = "V0001"
	ErrConnectToSource   = "V0002"
	ErrAmbiguousConnect  = "V0003"
	ErrAnalogConnect     = "V0004"
	ErrMalformedMemPort  = "V0005"
	ErrMemDataMismatch   = "V0006"
	ErrMemDepth          = "V0007"
	ErrInstanceSignature = "V0008"
	ErrDefnameConflict   = "V0009"
	ErrRegisterClock     = "V0010"
	ErrResetType         = "V0011"
	ErrPrimOperands      = "V0012"
	ErrWhenCondition     = "V0013"
	ErrMemLatency        = "V0014"
	ErrConnectWidth      = "V0015"
	ErrMemPortType       = "V0016"
	ErrMemDuplicatePort  = "V0017"
	ErrMemData           = "V0018"

	// Post-lowering checks (L prefix)
	ErrAggregateRemains = "L0001"
	ErrFlipRemains      = "L0002"

	// Warnings (W prefix)
	WarnMemNoPorts     = "W0001"
	WarnUnusedExtParam = "W0002"
)
