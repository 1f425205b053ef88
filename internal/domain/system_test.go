package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier(t *testing.T) {
	food := Order{Items: []OrderLine{{ItemID: "tacos", Name: "Tacos", Quantity: 2}}}
	bill := Order{Items: []OrderLine{{ItemID: BillRequestItemID, Quantity: 1}}}
	help := Order{Items: []OrderLine{{ItemID: HelpRequestItemID, Quantity: 1, Notes: "need napkins"}}}

	assert.False(t, IsSystemRequest(food))
	assert.False(t, IsBillRequest(food))
	assert.False(t, IsHelpRequest(food))

	assert.True(t, IsSystemRequest(bill))
	assert.True(t, IsBillRequest(bill))
	assert.False(t, IsHelpRequest(bill))

	assert.True(t, IsSystemRequest(help))
	assert.True(t, IsHelpRequest(help))
	assert.False(t, IsBillRequest(help))
}

func TestHelpMessage(t *testing.T) {
	withNote := Order{Items: []OrderLine{{ItemID: HelpRequestItemID, Notes: "need napkins"}}}
	assert.Equal(t, "need napkins", HelpMessage(withNote))

	blank := Order{Items: []OrderLine{{ItemID: HelpRequestItemID}}}
	assert.Equal(t, DefaultHelpMessage, HelpMessage(blank))

	food := Order{Items: []OrderLine{{ItemID: "tacos"}}}
	assert.Equal(t, "", HelpMessage(food))
}

func TestIsSystemLine(t *testing.T) {
	assert.True(t, IsSystemLine(OrderLine{ItemID: BillRequestItemID}))
	assert.True(t, IsSystemLine(OrderLine{ItemID: HelpRequestItemID}))
	assert.False(t, IsSystemLine(OrderLine{ItemID: "tacos"}))
}
