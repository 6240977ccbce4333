package gotables

// Operator defines a comparison operator applied to a column when filtering
// the dataset.
type Operator string

func (o Operator) Valid() bool {
	switch o {
	case OperatorEq, OperatorGTE, OperatorLTE, OperatorLike:
		return true
	default:
		return false
	}
}

const (
	OperatorEq   Operator = "="
	OperatorGTE  Operator = ">="
	OperatorLTE  Operator = "<="
	OperatorLike Operator = "LIKE"
)
