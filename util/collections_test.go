package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveDuplicatesFromList(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		list     []string
		expected []string
	}{
		{[]string{"19743"}, []string{"19743"}},
		{[]string{"19743", "19744"}, []string{"19743", "19744"}},
		{[]string{"19743", "19744", "19743"}, []string{"19743", "19744"}},
		{[]string{"a", "a", "a"}, []string{"a"}},
	}

	for _, testCase := range testCases {
		actual := RemoveDuplicatesFromList(testCase.list)
		assert.Equal(t, testCase.expected, actual, "For list %v", testCase.list)
	}
}

func TestRemoveEmptyElements(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, RemoveEmptyElements([]string{"", "a", "", "b", ""}))
	assert.Nil(t, RemoveEmptyElements([]string{"", ""}))
}
