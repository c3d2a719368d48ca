package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelCase_Normalize(t *testing.T) {
	policy := CamelCase{}

	t.Run("Should lower the first word only", func(t *testing.T) {
		cases := map[string]string{
			"UserName":   "userName",
			"userName":   "userName",
			"ID":         "id",
			"URLValue":   "urlValue",
			"ABc":        "aBc",
			"A":          "a",
			"IsSuccess":  "isSuccess",
			"user_name":  "user_name",
			"User_Name":  "user_Name",
			"HTTP Proxy": "http Proxy",
			"Ünicode":    "ünicode",
		}
		for in, expected := range cases {
			assert.Equal(t, expected, policy.Normalize(in), "input %q", in)
		}
	})

	t.Run("Should pass through names it cannot interpret", func(t *testing.T) {
		assert.Equal(t, "", policy.Normalize(""))
		assert.Equal(t, "123abc", policy.Normalize("123abc"))
		assert.Equal(t, "$ref", policy.Normalize("$ref"))
		assert.Equal(t, "\xff\xfe", policy.Normalize("\xff\xfe"))
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		for _, in := range []string{"UserName", "ID", "URLValue", "ABc", "HTTP Proxy", "already"} {
			once := policy.Normalize(in)
			assert.Equal(t, once, policy.Normalize(once), "input %q", in)
		}
	})
}

func TestLowerCamel_Normalize(t *testing.T) {
	t.Run("Should re-split words on separators", func(t *testing.T) {
		policy := LowerCamel{}
		assert.Equal(t, "userName", policy.Normalize("user_name"))
		assert.Equal(t, "userName", policy.Normalize("UserName"))
		assert.Equal(t, "contentType", policy.Normalize("Content-Type"))
		assert.Equal(t, "", policy.Normalize(""))
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		policy := LowerCamel{}
		once := policy.Normalize("order_total_amount")
		assert.Equal(t, once, policy.Normalize(once))
	})
}

func TestByName(t *testing.T) {
	t.Run("Should resolve known policies", func(t *testing.T) {
		for name, expected := range map[string]string{
			"":            PolicyCamel,
			"camel":       PolicyCamel,
			"lower_camel": PolicyLowerCamel,
			"none":        PolicyNone,
		} {
			p, err := ByName(name)
			require.NoError(t, err)
			assert.Equal(t, expected, p.Name())
		}
	})

	t.Run("Should reject unknown policies", func(t *testing.T) {
		_, err := ByName("kebab")
		require.ErrorIs(t, err, ErrUnknownPolicy)
	})

	t.Run("Should leave names untouched with the identity policy", func(t *testing.T) {
		assert.Equal(t, "Some_Key", Identity{}.Normalize("Some_Key"))
	})
}
