// Package stock serves the fixed lists of stock image URLs used for
// generated worlds, creatures and characters.
package stock

import (
	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
)

var (
	landscapes = []string{
		"https://images.unsplash.com/photo-1518709268805-4e9042af9f23?ixlib=rb-4.0.3&auto=format&fit=crop&w=1740&q=80", // floating islands
		"https://images.unsplash.com/photo-1604519029005-5a309bb68f21?ixlib=rb-4.0.3&auto=format&fit=crop&w=1064&q=80", // forest realm
		"https://images.unsplash.com/photo-1579548122080-c35fd6820ecb?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80", // fire realm
		"https://images.unsplash.com/photo-1534447677768-be436bb09401?ixlib=rb-4.0.3&auto=format&fit=crop&w=1064&q=80", // floating islands
		"https://images.unsplash.com/photo-1504805572947-34fad45aed93?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80", // night sky
		"https://images.unsplash.com/photo-1655413035736-03608723e702?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80", // mountain realm
	}

	creatures = []string{
		"https://images.unsplash.com/photo-1568283096533-078a38221368?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80", // dragon
		"https://images.unsplash.com/photo-1593179357196-025231ff9fa1?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80", // wolf
		"https://images.unsplash.com/photo-1576554284028-f5f464849315?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80", // owl
		"https://images.unsplash.com/photo-1553284965-83fd3e82fa5a?ixlib=rb-4.0.3&auto=format&fit=crop&w=1171&q=80", // horse
		"https://images.unsplash.com/photo-1585394732656-afe358a50a6b?ixlib=rb-4.0.3&auto=format&fit=crop&w=1171&q=80", // fox
		"https://images.unsplash.com/photo-1523246181290-a16e4207bbe4?ixlib=rb-4.0.3&auto=format&fit=crop&w=1169&q=80", // gryphon statue
	}

	characters = []string{
		"https://images.unsplash.com/photo-1578301978693-85fa9c0320b9?ixlib=rb-4.0.3&auto=format&fit=crop&w=1169&q=80", // knight
		"https://images.unsplash.com/photo-1583795128727-6ec3642408f8?ixlib=rb-4.0.3&auto=format&fit=crop&w=1157&q=80", // warrior
		"https://images.unsplash.com/photo-1551431009-a802eeec77b1?ixlib=rb-4.0.3&auto=format&fit=crop&w=1074&q=80", // wizard
		"https://images.unsplash.com/photo-1612036779831-b3834d2f37e3?ixlib=rb-4.0.3&auto=format&fit=crop&w=1170&q=80", // archer
	}
)

// Images picks stock image URLs at random
type Images struct {
	random random.Random
}

// New creates an image picker backed by rnd
func New(rnd random.Random) *Images {
	return &Images{random: rnd}
}

// RandomStockImage returns a uniformly chosen URL for the category.
// Unknown categories fall back to landscapes.
func (i *Images) RandomStockImage(category model.ImageCategory) string {
	return random.Pick(i.random, List(category))
}

// List returns a copy of the URLs for the category
func List(category model.ImageCategory) []string {
	var src []string
	switch category {
	case model.ImageCreature:
		src = creatures
	case model.ImageCharacter:
		src = characters
	default:
		src = landscapes
	}
	return append([]string(nil), src...)
}
