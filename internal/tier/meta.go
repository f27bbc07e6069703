package tier

// Meta describes how a tier is presented.
type Meta struct {
	Name        string
	Symbol      string
	Description string
	Color       string
	// Rare tiers get extra emphasis on the completion screen.
	Rare bool
}

var metas = map[ID]Meta{
	Pristine:    {Name: "PRISTINE", Symbol: "◆", Description: "flawless", Color: "#D05CE3", Rare: true},
	Exceptional: {Name: "EXCEPTIONAL", Symbol: "★", Description: "outstanding performance", Color: "#E8C547", Rare: true},
	Adequate:    {Name: "ADEQUATE", Symbol: "●", Description: "solid typing", Color: "#4FC1E9"},
	Disaster:    {Name: "DISASTER", Symbol: "▼", Description: "room for growth", Color: "#FF4D4F"},
}

// Info returns display metadata for id. Unknown ids get a neutral entry.
func Info(id ID) Meta {
	if m, ok := metas[id]; ok {
		return m
	}
	return Meta{Name: string(id), Symbol: "?", Color: "#8C8C8C"}
}

// Order lists tiers from best to worst.
func Order() []ID {
	return []ID{Pristine, Exceptional, Adequate, Disaster}
}

// Parse converts a stored tier name back to an ID.
func Parse(s string) (ID, bool) {
	id := ID(s)
	_, ok := metas[id]
	return id, ok
}
