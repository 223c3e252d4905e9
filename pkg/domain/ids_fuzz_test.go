package domain

import "testing"

// FuzzParseObjectionID checks that parsing never panics on arbitrary input and
// that accepted values round-trip through their string form unchanged.
func FuzzParseObjectionID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseObjectionID(input)
		if err != nil {
			return
		}
		roundTrip, err := ParseObjectionID(id.String())
		if err != nil {
			t.Errorf("accepted ID failed round-trip: %v", err)
		}
		if roundTrip != id {
			t.Error("round-trip changed ID value")
		}
	})
}
