package validation

const TargetCart = "cart"

type ValidationError struct {
	Message string
	Target  string
}

type Operation interface {
	isOperation()
}

type ValidationAdd struct {
	Errors []ValidationError
}

func (ValidationAdd) isOperation() {}

type Result struct {
	Operations []Operation
}

func (r Result) Errors() []ValidationError {
	var errs []ValidationError
	for _, op := range r.Operations {
		if add, ok := op.(ValidationAdd); ok {
			errs = append(errs, add.Errors...)
		}
	}
	return errs
}
