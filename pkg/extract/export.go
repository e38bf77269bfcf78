package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSON export of extracted entities. The shape mirrors the reference tool's
// export: a top-level "users" array with nested posts and relation lists.

type jsonDoc struct {
	Users []jsonUser `json:"users"`
}

type jsonUser struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Posts      []jsonPost `json:"posts"`
	Followers  []jsonRef  `json:"followers"`
	Followings []jsonRef  `json:"followings"`
}

type jsonPost struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Topics  []string `json:"topics"`
}

type jsonRef struct {
	ID string `json:"id"`
}

// MarshalJSON serializes the extraction result to indented JSON bytes.
// Users appear in document order for deterministic output.
func MarshalJSON(r *Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the extraction result as JSON to w.
func WriteJSON(r *Result, w io.Writer) error {
	doc := jsonDoc{Users: make([]jsonUser, 0, len(r.Order))}

	for _, u := range r.UsersInOrder() {
		ju := jsonUser{
			ID:         u.ID,
			Name:       u.Name,
			Posts:      []jsonPost{},
			Followers:  make([]jsonRef, 0, len(u.Followers)),
			Followings: make([]jsonRef, 0, len(u.Follows)),
		}
		for _, p := range r.PostsByAuthor(u.ID) {
			topics := p.Topics
			if topics == nil {
				topics = []string{}
			}
			ju.Posts = append(ju.Posts, jsonPost{ID: p.ID, Content: p.Body, Topics: topics})
		}
		for _, id := range u.Followers {
			ju.Followers = append(ju.Followers, jsonRef{ID: id})
		}
		for _, id := range u.Follows {
			ju.Followings = append(ju.Followings, jsonRef{ID: id})
		}
		doc.Users = append(doc.Users, ju)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
