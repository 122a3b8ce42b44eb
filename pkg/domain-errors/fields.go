package domainerrors

// Fields accumulates field errors while a payload is validated so that every
// problem is reported at once.
type Fields []FieldError

// Add records a problem with field.
func (f *Fields) Add(field, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

// Check records message when ok is false.
func (f *Fields) Check(ok bool, field, message string) {
	if !ok {
		f.Add(field, message)
	}
}

// Merge prefixes nested field errors with prefix.
func (f *Fields) Merge(prefix string, nested Fields) {
	for _, fe := range nested {
		f.Add(prefix+"."+fe.Field, fe.Message)
	}
}

// Err returns a validation error when any field failed, otherwise nil.
func (f Fields) Err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return Validation(message, f...)
}
