package types

import (
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/theater-records/internal/netid"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the "netid" tag registered.
// Field errors are reported under their JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("netid", func(fl validator.FieldLevel) bool {
			return netid.Valid(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// CharacterKey identifies a character: a student playing a named role in a show.
type CharacterKey struct {
	CharacterName string `json:"characterName" validate:"required"`
	ShowID        string `json:"showID"        validate:"required"`
	NetID         string `json:"netID"         validate:"required,netid"`
}

// Validate checks that every key component is present.
func (k CharacterKey) Validate() error { return Validator().Struct(k) }

// Values encodes the key as request parameters.
func (k CharacterKey) Values() url.Values {
	return url.Values{
		"characterName": {k.CharacterName},
		"showID":        {k.ShowID},
		"netID":         {k.NetID},
	}
}

// SceneKey identifies a scene within a show.
type SceneKey struct {
	SceneName string `json:"sceneName" validate:"required"`
	ShowID    string `json:"showID"    validate:"required"`
}

// Validate checks that every key component is present.
func (k SceneKey) Validate() error { return Validator().Struct(k) }

// Values encodes the key as request parameters.
func (k SceneKey) Values() url.Values {
	return url.Values{
		"sceneName": {k.SceneName},
		"showID":    {k.ShowID},
	}
}

// SceneDetailKey identifies one character's notes for one scene.
type SceneDetailKey struct {
	CharacterName string `json:"characterName" validate:"required"`
	SceneName     string `json:"sceneName"     validate:"required"`
	NetID         string `json:"netID"         validate:"required,netid"`
	ShowID        string `json:"showID"        validate:"required"`
}

// Validate checks that every key component is present.
func (k SceneDetailKey) Validate() error { return Validator().Struct(k) }

// Values encodes the key as request parameters.
func (k SceneDetailKey) Values() url.Values {
	return url.Values{
		"characterName": {k.CharacterName},
		"sceneName":     {k.SceneName},
		"netID":         {k.NetID},
		"showID":        {k.ShowID},
	}
}

// CharacterKeyFrom reads a CharacterKey out of request parameters.
func CharacterKeyFrom(v url.Values) CharacterKey {
	return CharacterKey{
		CharacterName: v.Get("characterName"),
		ShowID:        v.Get("showID"),
		NetID:         v.Get("netID"),
	}
}

// SceneKeyFrom reads a SceneKey out of request parameters.
func SceneKeyFrom(v url.Values) SceneKey {
	return SceneKey{SceneName: v.Get("sceneName"), ShowID: v.Get("showID")}
}

// SceneDetailKeyFrom reads a SceneDetailKey out of request parameters.
func SceneDetailKeyFrom(v url.Values) SceneDetailKey {
	return SceneDetailKey{
		CharacterName: v.Get("characterName"),
		SceneName:     v.Get("sceneName"),
		NetID:         v.Get("netID"),
		ShowID:        v.Get("showID"),
	}
}
