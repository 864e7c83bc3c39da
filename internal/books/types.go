package books

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Book mirrors a single resource returned by the books API.
type Book struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	PublishYear Year      `json:"publishYear"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UnmarshalJSON accepts both `_id` and `id` as the identifier field.
func (b *Book) UnmarshalJSON(data []byte) error {
	type plain Book
	var raw struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Book(raw.plain)
	if b.ID == "" {
		b.ID = raw.AltID
	}
	return nil
}

// Draft returns the editable fields of the book.
func (b Book) Draft() Draft {
	return Draft{Title: b.Title, Author: b.Author, PublishYear: b.PublishYear}
}

// WithDraft returns a copy of b carrying the draft's editable fields.
func (b Book) WithDraft(d Draft) Book {
	b.Title = d.Title
	b.Author = d.Author
	b.PublishYear = d.PublishYear
	return b
}

// Draft is the request body for create and update calls.
type Draft struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	PublishYear Year   `json:"publishYear"`
}

// Year holds a publish year as entered by the user. Backends may send it as
// a number or a string.
type Year string

// Int returns the numeric year when the text is an integer.
func (y Year) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(y)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON emits a number when the trimmed text is exactly the decimal
// form of an integer, and the text as typed otherwise. "0042" and "+5" stay
// strings.
func (y Year) MarshalJSON() ([]byte, error) {
	text := strings.TrimSpace(string(y))
	if n, ok := y.Int(); ok && strconv.Itoa(n) == text {
		return []byte(text), nil
	}
	return json.Marshal(string(y))
}

// UnmarshalJSON accepts numbers, strings and null.
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*y = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("publishYear: %w", err)
	}
	*y = Year(n.String())
	return nil
}

type listResponse struct {
	Count int    `json:"count"`
	Data  []Book `json:"data"`
}

type csrfResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// errorBody covers the two error envelopes seen from book backends:
// `{"message": "..."}` and `{"error": {"message": "..."}}`.
type errorBody struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e errorBody) text() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(e.Error.Message)
}
