package nodelib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollections_ListNode_BuildsFromNumberedItems(t *testing.T) {
	reg := newRegistry(t)
	out := runDataNode(t, buildDriver(t, reg, "ListNode"), nil, map[string]any{
		"item_1": "a", "item_2": "b",
	})
	assert.Equal(t, []any{"a", "b"}, out["value"])
}

func TestCollections_ListNode_AppendsLastList(t *testing.T) {
	reg := newRegistry(t)
	out := runDataNode(t, buildDriver(t, reg, "ListNode"), nil, map[string]any{
		"item_1": "a", "last_list": []any{"x", "y"},
	})
	assert.Equal(t, []any{"a", "x", "y"}, out["value"])
}

func TestCollections_AppendToListNode_DoesNotMutateInput(t *testing.T) {
	reg := newRegistry(t)
	driver := buildDriver(t, reg, "AppendToListNode")

	original := []any{1, 2}
	out := runDataNode(t, driver, nil, map[string]any{"list": original, "item": 3})

	assert.Equal(t, []any{1, 2, 3}, out["list"])
	assert.Len(t, original, 2, "the input slice must not be mutated")
}

func TestCollections_GetAndSetListItem(t *testing.T) {
	reg := newRegistry(t)

	getOut := runDataNode(t, buildDriver(t, reg, "GetListItemNode"), nil, map[string]any{
		"list": []any{"a", "b", "c"}, "index": 1,
	})
	assert.Equal(t, "b", getOut["value"])

	outOfRange := runDataNode(t, buildDriver(t, reg, "GetListItemNode"), nil, map[string]any{
		"list": []any{"a"}, "index": 5,
	})
	assert.Nil(t, outOfRange["value"])

	setOut := runDataNode(t, buildDriver(t, reg, "SetListItemNode"), nil, map[string]any{
		"list": []any{"a", "b", "c"}, "index": 1, "value": "z",
	})
	assert.Equal(t, []any{"a", "z", "c"}, setOut["list"])
}

func TestCollections_DictRoundtrip(t *testing.T) {
	reg := newRegistry(t)

	putOut := runDataNode(t, buildDriver(t, reg, "PutToDictNode"), nil, map[string]any{
		"dict": map[string]any{"existing": 1}, "key": "name", "value": "alice",
	})
	d := putOut["dict"].(map[string]any)
	assert.Equal(t, 1, d["existing"])
	assert.Equal(t, "alice", d["name"])

	getOut := runDataNode(t, buildDriver(t, reg, "GetFromDictNode"), nil, map[string]any{
		"dict": d, "key": "name",
	})
	assert.Equal(t, "alice", getOut["value"])
}

func TestCollections_StringKeyDictNode_BuildsFromPairsAndLastDict(t *testing.T) {
	reg := newRegistry(t)
	out := runDataNode(t, buildDriver(t, reg, "StringKeyDictNode"), nil, map[string]any{
		"key_1": "a", "value_1": 1,
		"last_dict": map[string]any{"z": 9},
	})
	d := out["value"].(map[string]any)
	assert.Equal(t, 1, d["a"])
	assert.Equal(t, 9, d["z"])
}

func TestCollections_EmptyListAndDict(t *testing.T) {
	reg := newRegistry(t)

	listOut := runDataNode(t, buildDriver(t, reg, "EmptyListNode"), nil, map[string]any{})
	assert.Equal(t, []any{}, listOut["value"])

	dictOut := runDataNode(t, buildDriver(t, reg, "EmptyDictNode"), nil, map[string]any{})
	assert.Equal(t, map[string]any{}, dictOut["value"])
}
