package sigfile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	gosig "github.com/reoring/gosig"
	"github.com/reoring/gosig/sigfile"
)

const sampleFile = `
schemas:
  userID: string
  user: "{string:any}"
  users: "[user]"
contracts:
  SaveUser:
    names: [id, u]
    params:
      id: userID
      u: user
    return: bool
  ListUsers:
    return: users
`

func TestLoad(t *testing.T) {
	f, err := sigfile.Load([]byte(sampleFile))
	require.NoError(t, err)

	require.Equal(t, []string{"user", "userID", "users"}, f.SchemaNames())
	require.Equal(t, []string{"ListUsers", "SaveUser"}, f.ContractNames())

	s, ok := f.Schema("userID")
	require.True(t, ok)
	require.Equal(t, "string", gosig.Describe(s))

	// users references user, declared later in this file
	s, ok = f.Schema("users")
	require.True(t, ok)
	require.Equal(t, "[{string:any}]", gosig.Describe(s))

	c, ok := f.Contract("SaveUser")
	require.True(t, ok)
	require.Equal(t, []string{"id", "u"}, c.Sig.Names())
	require.Equal(t, "bool", gosig.Describe(c.Return))
	require.Len(t, c.Instruments(), 2)
}

func TestLoadMultiDocument(t *testing.T) {
	f, err := sigfile.Load([]byte("schemas:\n  a: int\n---\nschemas:\n  b: \"[a]\"\n"))
	require.NoError(t, err)
	s, ok := f.Schema("b")
	require.True(t, ok)
	require.Equal(t, "[int]", gosig.Describe(s))
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "schemas: [",
		"bad expression":  "schemas:\n  a: \"[\"\n",
		"params no names": "contracts:\n  F:\n    params: {x: int}\n",
		"empty contract":  "contracts:\n  F: {}\n",
		"duplicate":       "schemas:\n  a: int\n---\nschemas:\n  a: string\n",
	}
	for name, src := range cases {
		_, err := sigfile.Load([]byte(src))
		require.Error(t, err, name)
	}
}

func TestContractWrap(t *testing.T) {
	f, err := sigfile.Load([]byte(sampleFile))
	require.NoError(t, err)
	c, ok := f.Contract("SaveUser")
	require.True(t, ok)

	save := func(id any, u any) (bool, error) { return true, nil }
	w, err := c.Wrap(save)
	require.NoError(t, err)

	out := w.Call("u1", map[string]any{"name": "ada"})
	require.Nil(t, out[1])
	require.Equal(t, true, out[0])

	out = w.Call(42, map[string]any{})
	verr, ok2 := out[1].(error)
	require.True(t, ok2)
	v, isViolation := gosig.AsViolation(verr)
	require.True(t, isViolation)
	require.Equal(t, gosig.CodeArgumentMismatch, v.Code)
}

func TestContractWrapSignatureMismatch(t *testing.T) {
	f, err := sigfile.Load([]byte(sampleFile))
	require.NoError(t, err)
	c, _ := f.Contract("SaveUser")

	_, err = c.Wrap(func(id any) (bool, error) { return true, nil })
	_, isDef := gosig.AsDefinition(err)
	require.True(t, isDef)
}
