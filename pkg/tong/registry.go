package tong

// Registry tracks data constructors declared so far. The parser fills
// it while processing `data` declarations and consults it to classify
// capitalized names; the evaluator and the pattern linter read it too.
type Registry struct {
	arity map[string]int      // constructor -> field count
	owner map[string]string   // constructor -> declaring type
	ctors map[string][]string // type -> constructors in declaration order
}

func NewRegistry() *Registry {
	return &Registry{
		arity: map[string]int{},
		owner: map[string]string{},
		ctors: map[string][]string{},
	}
}

// Define registers one constructor of typeName. Re-declaring a
// constructor with the same arity is a no-op; changing its arity or
// moving it to another type is a ParseError.
func (r *Registry) Define(typeName, ctor string, arity int, loc *SourceLocation) error {
	if prev, ok := r.arity[ctor]; ok {
		if prev != arity {
			return NewError(ParseError, loc, "constructor %s redeclared with arity %d (was %d)", ctor, arity, prev)
		}
		if r.owner[ctor] != typeName {
			return NewError(ParseError, loc, "constructor %s already belongs to type %s", ctor, r.owner[ctor])
		}
		return nil
	}
	r.arity[ctor] = arity
	r.owner[ctor] = typeName
	r.ctors[typeName] = append(r.ctors[typeName], ctor)
	return nil
}

// Arity reports the field count of a registered constructor.
func (r *Registry) Arity(ctor string) (int, bool) {
	n, ok := r.arity[ctor]
	return n, ok
}

func (r *Registry) IsConstructor(name string) bool {
	_, ok := r.arity[name]
	return ok
}

// TypeOf reports which data type declared the constructor.
func (r *Registry) TypeOf(ctor string) (string, bool) {
	t, ok := r.owner[ctor]
	return t, ok
}

// Constructors lists a type's constructors in declaration order.
func (r *Registry) Constructors(typeName string) []string {
	return r.ctors[typeName]
}
