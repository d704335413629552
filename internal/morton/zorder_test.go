package morton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder(t *testing.T) {
	t.Run("groups same cell together", func(t *testing.T) {
		cells := [][2]int{{0, 0}, {5, 5}, {0, 0}, {1, 1}, {5, 5}}
		order := Order(len(cells), func(i int) (int, int) {
			return cells[i][0], cells[i][1]
		})
		assert.Len(t, order, len(cells))

		seen := make(map[int]bool)
		for _, i := range order {
			assert.False(t, seen[i], "index %d visited twice", i)
			seen[i] = true
		}

		// Once the order moves past a cell, that cell must not come back.
		left := make(map[[2]int]bool)
		for pos := 1; pos < len(order); pos++ {
			prev, cur := cells[order[pos-1]], cells[order[pos]]
			if prev != cur {
				left[prev] = true
				assert.False(t, left[cur], "cell %v split apart in the order", cur)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		order := Order(0, func(i int) (int, int) { return 0, 0 })
		assert.Empty(t, order)
	})

	t.Run("origin sorts first", func(t *testing.T) {
		cells := [][2]int{{3, 3}, {0, 0}, {1, 0}}
		order := Order(len(cells), func(i int) (int, int) {
			return cells[i][0], cells[i][1]
		})
		assert.Equal(t, 1, order[0])
	})
}
