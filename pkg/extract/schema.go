// Package extract materializes social-network entities (users, posts,
// follow relations) from a validated element tree.
//
// The recognized tag and attribute vocabulary is an external schema
// contract, not fixed here: extraction is configured with a Schema, and the
// default matches the vocabulary of the reference documents (<user id="...">
// with nested <name>, <post>, <follower>, <following> elements). Alternate
// vocabularies can be loaded from a TOML file.
//
// Extraction is best-effort over potentially imperfect documents: elements
// missing required identifiers are skipped with a warning, never a failure.
package extract

import (
	"github.com/BurntSushi/toml"

	"github.com/grovekit/grove/pkg/errors"
)

// Schema names the elements and attributes the extractor recognizes.
// The zero value is not usable; start from DefaultSchema.
type Schema struct {
	// UserTag is the element representing one user.
	UserTag string `toml:"user_tag"`

	// IDAttr is the attribute carrying an entity id. A nested IDTag element
	// is accepted as a fallback, matching the reference documents.
	IDAttr string `toml:"id_attr"`
	IDTag  string `toml:"id_tag"`

	// NameTag is the element carrying a user's display name.
	NameTag string `toml:"name_tag"`

	// PostTag is the element representing one authored post. BodyTags are
	// accepted (in order) as the element holding post content; TopicTag
	// marks optional topic labels.
	PostTag  string   `toml:"post_tag"`
	BodyTags []string `toml:"body_tags"`
	TopicTag string   `toml:"topic_tag"`

	// FollowerTag marks an incoming follow reference (that user follows
	// this one); FollowingTag marks an outgoing one.
	FollowerTag  string `toml:"follower_tag"`
	FollowingTag string `toml:"following_tag"`
}

// DefaultSchema returns the vocabulary of the reference documents.
func DefaultSchema() Schema {
	return Schema{
		UserTag:      "user",
		IDAttr:       "id",
		IDTag:        "id",
		NameTag:      "name",
		PostTag:      "post",
		BodyTags:     []string{"body", "content"},
		TopicTag:     "topic",
		FollowerTag:  "follower",
		FollowingTag: "following",
	}
}

// LoadSchema reads a TOML schema file. Keys not present in the file keep
// their DefaultSchema values, so a file only needs to name what differs.
func LoadSchema(path string) (Schema, error) {
	s := DefaultSchema()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Schema{}, errors.Wrap(errors.ErrCodeInvalidSchema, err, "load schema %s", path)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Validate checks that every schema name is a legal tag or attribute name.
func (s Schema) Validate() error {
	names := []string{
		s.UserTag, s.IDAttr, s.IDTag, s.NameTag,
		s.PostTag, s.TopicTag, s.FollowerTag, s.FollowingTag,
	}
	names = append(names, s.BodyTags...)
	for _, name := range names {
		if err := errors.ValidateTagName(name); err != nil {
			return err
		}
	}
	if len(s.BodyTags) == 0 {
		return errors.New(errors.ErrCodeInvalidSchema, "schema must name at least one body tag")
	}
	return nil
}
