package catalog

// Copy is one physical copy of a title.
type Copy struct {
	ID       int
	TitleID  int
	Shelf    string
	Borrowed bool
}

// Location returns the shelf location, which is meaningless while the copy is
// out of the library.
func (c Copy) Location() (string, bool) {
	if c.Borrowed {
		return "", false
	}
	return c.Shelf, true
}
