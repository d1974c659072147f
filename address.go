package mailat

import (
	"fmt"

	"github.com/mailat/mailat-go/internal/api"
)

// Address is an email address with an optional display name.
type Address struct {
	Email string
	Name  string
}

// Addr returns an Address with no display name.
func Addr(email string) Address {
	return Address{Email: email}
}

// NamedAddr returns an Address with a display name.
func NamedAddr(email, name string) Address {
	return Address{Email: email, Name: name}
}

// String renders the address in "Name <email>" form, or the bare email
// when no name is set.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Recipients is one or more addresses. Send-style operations accept
// whatever the caller has: build from strings with To, or construct the
// slice directly for named recipients.
type Recipients []Address

// To builds Recipients from bare email addresses.
func To(emails ...string) Recipients {
	r := make(Recipients, len(emails))
	for i, e := range emails {
		r[i] = Addr(e)
	}
	return r
}

// addressesToWire normalizes recipients to the object wire form. All
// send-style operations share this one normalization path.
func addressesToWire(r Recipients) []api.AddressDTO {
	if len(r) == 0 {
		return nil
	}
	out := make([]api.AddressDTO, len(r))
	for i, a := range r {
		out[i] = api.AddressDTO{Email: a.Email, Name: a.Name}
	}
	return out
}

// addressesToStrings normalizes recipients to the first-generation bare
// string wire form, "Name <email>" for named addresses.
func addressesToStrings(r Recipients) []string {
	if len(r) == 0 {
		return nil
	}
	out := make([]string, len(r))
	for i, a := range r {
		out[i] = a.String()
	}
	return out
}

// addressToWire converts a single optional address; the zero Address maps
// to nil so the field is omitted from the body entirely.
func addressToWire(a Address) *api.AddressDTO {
	if a.Email == "" {
		return nil
	}
	return &api.AddressDTO{Email: a.Email, Name: a.Name}
}

// addressFromWire converts a decoded wire address.
func addressFromWire(d api.AddressDTO) Address {
	return Address{Email: d.Email, Name: d.Name}
}

// addressesFromWire converts a decoded wire address list.
func addressesFromWire(ds []api.AddressDTO) []Address {
	if ds == nil {
		return nil
	}
	out := make([]Address, len(ds))
	for i, d := range ds {
		out[i] = addressFromWire(d)
	}
	return out
}
