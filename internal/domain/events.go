package domain

// Event types published by the crafting service
const (
	// EventTypeCraftStarted is published when a craft passes selection and its activity is scheduled
	EventTypeCraftStarted = "crafting.started"

	// EventTypeCraftCompleted is published when components are consumed and results produced
	EventTypeCraftCompleted = "crafting.completed"

	// EventTypeCraftBlocked is published when selection or re-validation finds missing components
	EventTypeCraftBlocked = "crafting.blocked"

	// EventTypeCraftCancelled is published when a craft is abandoned before consumption
	EventTypeCraftCancelled = "crafting.cancelled"

	// EventTypeItemDisassembled is published when an item is taken apart
	EventTypeItemDisassembled = "item.disassembled"

	// EventTypeRecipeLearned is published when a crafter learns a recipe
	EventTypeRecipeLearned = "recipe.learned"

	// EventTypeTrapTriggered is published when a trap handler fires
	EventTypeTrapTriggered = "trap.triggered"
)
