package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexString accepts a JSON string or number. Clients send quantities, phone
// numbers and pincodes both ways; the API stores them as text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resourceRequest struct {
	Name     string     `json:"name"`
	Quantity flexString `json:"qtty"`
	Pincode  flexString `json:"pincode"`
	Phone    flexString `json:"phone"`
}

type blogRequest struct {
	Image   string `json:"image"`
	Text    string `json:"text"`
	Heading string `json:"heading"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type filterRequest struct {
	Pincode flexString `json:"pincode"`
}
