package geometry

// ToDocumentSpace converts a point from screen pixels to document units.
// The viewport origin is the screen position of the document's top-left
// corner; scale is the current zoom factor.
func ToDocumentSpace(screen, origin Point2D, scale float64) Point2D {
	return Point2D{
		X: (screen.X - origin.X) / scale,
		Y: (screen.Y - origin.Y) / scale,
	}
}

// ToScreenSpace converts a point from document units back to screen pixels.
// It is the inverse of ToDocumentSpace.
func ToScreenSpace(doc, origin Point2D, scale float64) Point2D {
	return Point2D{
		X: doc.X*scale + origin.X,
		Y: doc.Y*scale + origin.Y,
	}
}
