package api

import "encoding/json"

// AddressDTO is the wire form of an email address. Current-generation
// endpoints encode addresses as objects; first-generation payloads and some
// server responses use bare strings, so decoding accepts both forms.
type AddressDTO struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// UnmarshalJSON accepts either "user@example.com" or
// {"email": "...", "name": "..."}.
func (a *AddressDTO) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		a.Email = bare
		a.Name = ""
		return nil
	}

	type addressAlias AddressDTO
	var obj addressAlias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = AddressDTO(obj)
	return nil
}

// Pagination carries the shared list-response paging fields.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}
