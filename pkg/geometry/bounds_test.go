package geometry

import (
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewPoint(1, 2, 3))
	bbox.Extend(NewPoint(4, 5, 6))
	bbox.Extend(NewPoint(-1, 0, 2))

	expectedMin := NewPoint(-1, 0, 2)
	expectedMax := NewPoint(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewPoint(0, 0, 0))
	bbox.Extend(NewPoint(10, 20, 30))

	size := bbox.Size()
	expected := NewPoint(10, 20, 30)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewPoint(0, 0, 0))
	bbox.Extend(NewPoint(10, 20, 30))

	center := bbox.Center()
	expected := NewPoint(5, 10, 15)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.Empty() {
		t.Errorf("new bounding box should be empty")
	}
	if bbox.Size() != (Point{}) {
		t.Errorf("empty bounding box should have zero size, got %v", bbox.Size())
	}

	bbox.Extend(NewPoint(1, 1, 1))
	if bbox.Empty() {
		t.Errorf("bounding box with one point should not be empty")
	}
}
