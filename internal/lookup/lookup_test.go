package lookup

import (
	"testing"

	"bekind-internal/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestNameMap_ResolveRoundTrip(t *testing.T) {
	m := AccountNameMap([]domain.Account{
		{ID: 7, FullName: "Lan"},
		{ID: 9, FullName: "Minh"},
	})

	for _, id := range m.IDs() {
		label, ok := m.Label(id)
		assert.True(t, ok)
		back, ok := m.Resolve(label)
		assert.True(t, ok)
		assert.Equal(t, id, back)
	}
	assert.Equal(t, []string{"Lan", "Minh"}, m.Options())

	_, ok := m.Resolve("Someone Else")
	assert.False(t, ok)
}

func TestNameMap_DuplicateLabelsFirstMatchWins(t *testing.T) {
	m := NewNameMap()
	m.Add(3, "An")
	m.Add(1, "An")
	m.Add(2, "Binh")

	id, ok := m.Resolve("An")
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)
	assert.True(t, m.Ambiguous("An"))
	assert.False(t, m.Ambiguous("Binh"))
	assert.Equal(t, []string{"An"}, m.Duplicates())
}

func TestNameMap_AddKeepsOrder(t *testing.T) {
	m := NewNameMap()
	m.Add(1, "a")
	m.Add(2, "b")
	m.Add(1, "c")

	assert.Equal(t, []int64{1, 2}, m.IDs())
	assert.Equal(t, []string{"c", "b"}, m.Options())
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Contains(2))
}

func TestHouseMap(t *testing.T) {
	m := BuildHouseMap([]domain.HouseWithManager{
		{House: domain.House{ID: 10, Address: "12 Lê Lợi", ManagerID: 5}, ManagerName: "Hùng"},
		{House: domain.House{ID: 11, Address: "3 Trần Phú", ManagerID: 99}},
	})

	id, ok := m.ResolveAddress("12 Lê Lợi")
	assert.True(t, ok)
	assert.Equal(t, int64(10), id)

	info, ok := m.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "12 Lê Lợi", info.Address)
	assert.Equal(t, "Hùng", info.ManagerName)

	orphan, _ := m.Get(11)
	assert.Equal(t, UnknownManagerName, orphan.ManagerName)

	assert.Equal(t, []string{"12 Lê Lợi", "3 Trần Phú"}, m.Addresses())
	assert.Equal(t, []int64{10, 11}, m.IDs())
	assert.Equal(t, 2, m.Len())
}
