package models

const DefaultLogoURL = "https://drive.google.com/uc?export=view&id=1MawsPYwCEJ5ytpKnP34HGpslmjle4b-R"

// DefaultHeroImages is the stock banner rotation.
func DefaultHeroImages() []string {
	return []string{
		"https://images.unsplash.com/photo-1550547660-d9450f859349?auto=format&fit=crop&w=1920&q=80",
		"https://images.unsplash.com/photo-1568901346375-23c9450c58cd?auto=format&fit=crop&w=1920&q=80",
		"https://images.unsplash.com/photo-1594212699903-ec8a3eca50f5?auto=format&fit=crop&w=1920&q=80",
		"https://images.unsplash.com/photo-1615297928064-24977384d0f5?auto=format&fit=crop&w=1920&q=80",
		"https://images.unsplash.com/photo-1551782450-a2132b4ba21d?auto=format&fit=crop&w=1920&q=80",
	}
}
