package classifier

// Kind is the verdict category. The zero value is Safe.
type Kind int

const (
	Safe Kind = iota
	Suspicious
)

func (k Kind) String() string {
	switch k {
	case Safe:
		return "safe"
	case Suspicious:
		return "suspicious"
	default:
		return "unknown"
	}
}

// Verdict is the classifier output. Reason is non-empty exactly when Kind is
// Suspicious. RuleID and Evidence identify what fired and are informational.
type Verdict struct {
	Kind     Kind
	Reason   string
	RuleID   string
	Evidence string
}

func (v Verdict) IsSuspicious() bool {
	return v.Kind == Suspicious
}
