package palette

func defaultPalette() Palette {
	return Palette{
		Background: "#e8f5e9",
		Surface:    "#ffffff",
		Text:       "#2e7d32",
		BodyText:   "#4a4a4a",
		Muted:      "#555",
		Divider:    "#dddddd",
		Shadow:     "#000000",
		Biomas: map[string]string{
			Amazonia:      "#4caf50",
			Cerrado:       "#fbc02d",
			Caatinga:      "#ff7043",
			MataAtlantica: "#388e3c",
		},
	}
}

func protanopiaPalette() Palette {
	return Palette{
		Background: "#eef3ff",
		Surface:    "#ffffff",
		Text:       "#1a237e",
		BodyText:   "#2d2d2d",
		Muted:      "#4a4a4a",
		Divider:    "#cfd8dc",
		Shadow:     "#000000",
		Biomas: map[string]string{
			Amazonia:      "#5c6bc0", // medium blue
			Cerrado:       "#8d6e63", // brown
			Caatinga:      "#00838f", // teal
			MataAtlantica: "#3949ab", // dark blue
		},
	}
}

func deuteranopiaPalette() Palette {
	return Palette{
		Background: "#f3f5ff",
		Surface:    "#ffffff",
		Text:       "#283593",
		BodyText:   "#2e2e2e",
		Muted:      "#4a4a4a",
		Divider:    "#c5cae9",
		Shadow:     "#000000",
		Biomas: map[string]string{
			Amazonia:      "#3f51b5",
			Cerrado:       "#ff8a65", // soft orange
			Caatinga:      "#00897b", // blue-green
			MataAtlantica: "#5e35b1",
		},
	}
}

func tritanopiaPalette() Palette {
	return Palette{
		Background: "#f9f4e7",
		Surface:    "#ffffff",
		Text:       "#4e342e",
		BodyText:   "#3a3a3a",
		Muted:      "#5f5f5f",
		Divider:    "#e0d7c2",
		Shadow:     "#000000",
		Biomas: map[string]string{
			Amazonia:      "#6d4c41", // brown
			Cerrado:       "#f9a825", // strong yellow
			Caatinga:      "#8e24aa", // purple
			MataAtlantica: "#2e7d32",
		},
	}
}

func highContrastPalette() Palette {
	return Palette{
		Background: "#000000",
		Surface:    "#111111",
		Text:       "#FFFFFF",
		BodyText:   "#FFFFFF",
		Muted:      "#E0E0E0",
		Divider:    "#555555",
		Shadow:     "#000000",
		Biomas: map[string]string{
			Amazonia:      "#FFFFFF",
			Cerrado:       "#FFFFFF",
			Caatinga:      "#FFFFFF",
			MataAtlantica: "#FFFFFF",
		},
	}
}
