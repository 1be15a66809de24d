package model

// ImageCategory selects a stock image list
type ImageCategory string

const (
	ImageLandscape ImageCategory = "landscape"
	ImageCreature  ImageCategory = "creature"
	ImageCharacter ImageCategory = "character"
)
