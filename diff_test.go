package dfdrift

import (
	"reflect"
	"testing"

	"github.com/Hi-king/dfdrift/pkg/types"
)

func fp(shape types.Shape, cols ...[2]string) types.Fingerprint {
	set := types.NewColumnSet()
	for _, c := range cols {
		set.Add(c[0], types.ColumnStat{DType: c[1], TotalCount: shape.Rows})
	}
	return types.Fingerprint{Columns: set, Shape: shape}
}

func TestDiff_NilOldIsEmpty(t *testing.T) {
	current := fp(types.Shape{Rows: 3, Cols: 1}, [2]string{"x", "int64"})
	if cs := Diff(nil, current); !cs.Empty() {
		t.Errorf("first observation should be empty, got %+v", cs)
	}
}

func TestDiff_Identical(t *testing.T) {
	a := fp(types.Shape{Rows: 3, Cols: 2}, [2]string{"x", "int64"}, [2]string{"y", "string"})
	b := fp(types.Shape{Rows: 3, Cols: 2}, [2]string{"x", "int64"}, [2]string{"y", "string"})
	if cs := Diff(&a, b); !cs.Empty() {
		t.Errorf("identical fingerprints should diff empty, got %+v", cs)
	}
}

func TestDiff_AddedColumn(t *testing.T) {
	old := fp(types.Shape{Rows: 3, Cols: 2}, [2]string{"x", "int64"}, [2]string{"y", "string"})
	current := fp(types.Shape{Rows: 3, Cols: 3},
		[2]string{"x", "int64"}, [2]string{"y", "string"}, [2]string{"z", "float64"})

	cs := Diff(&old, current)
	if !reflect.DeepEqual(cs.AddedColumns, []string{"z"}) {
		t.Errorf("AddedColumns = %v, want [z]", cs.AddedColumns)
	}
	if len(cs.RemovedColumns) != 0 || len(cs.TypeChanges) != 0 {
		t.Errorf("only added_columns should be set: %+v", cs)
	}
	// Column count changed, so shape change is reported too
	if !cs.ShapeChanged {
		t.Error("column count change should set shape_changed")
	}
}

func TestDiff_RemovedColumn(t *testing.T) {
	old := fp(types.Shape{Rows: 3, Cols: 3},
		[2]string{"x", "int64"}, [2]string{"y", "string"}, [2]string{"z", "float64"})
	current := fp(types.Shape{Rows: 3, Cols: 2}, [2]string{"x", "int64"}, [2]string{"y", "string"})

	cs := Diff(&old, current)
	if !reflect.DeepEqual(cs.RemovedColumns, []string{"z"}) {
		t.Errorf("RemovedColumns = %v, want [z]", cs.RemovedColumns)
	}
	if len(cs.AddedColumns) != 0 || len(cs.TypeChanges) != 0 {
		t.Errorf("only removed_columns should be set: %+v", cs)
	}
}

func TestDiff_TypeChange(t *testing.T) {
	old := fp(types.Shape{Rows: 3, Cols: 2}, [2]string{"age", "integer"}, [2]string{"y", "string"})
	current := fp(types.Shape{Rows: 3, Cols: 2}, [2]string{"age", "string"}, [2]string{"y", "string"})

	cs := Diff(&old, current)
	want := map[string]types.TypeChange{"age": {Old: "integer", New: "string"}}
	if !reflect.DeepEqual(cs.TypeChanges, want) {
		t.Errorf("TypeChanges = %v, want %v", cs.TypeChanges, want)
	}
	if len(cs.AddedColumns) != 0 || len(cs.RemovedColumns) != 0 || cs.ShapeChanged {
		t.Errorf("only type_changes should be set: %+v", cs)
	}
}

func TestDiff_ShapeOnly(t *testing.T) {
	old := fp(types.Shape{Rows: 100, Cols: 2}, [2]string{"x", "int64"}, [2]string{"y", "string"})
	current := fp(types.Shape{Rows: 50, Cols: 2}, [2]string{"x", "int64"}, [2]string{"y", "string"})

	cs := Diff(&old, current)
	if !cs.ShapeChanged {
		t.Fatal("row count change should set shape_changed")
	}
	if cs.OldShape != (types.Shape{Rows: 100, Cols: 2}) || cs.NewShape != (types.Shape{Rows: 50, Cols: 2}) {
		t.Errorf("shapes not carried: %v → %v", cs.OldShape, cs.NewShape)
	}
	if len(cs.AddedColumns) != 0 || len(cs.RemovedColumns) != 0 || len(cs.TypeChanges) != 0 {
		t.Errorf("only shape section should be set: %+v", cs)
	}
}

func TestDiff_NullCountChangeIsNotDrift(t *testing.T) {
	set := types.NewColumnSet()
	set.Add("x", types.ColumnStat{DType: "int64", NullCount: 0, TotalCount: 3})
	old := types.Fingerprint{Columns: set, Shape: types.Shape{Rows: 3, Cols: 1}}

	set2 := types.NewColumnSet()
	set2.Add("x", types.ColumnStat{DType: "int64", NullCount: 2, TotalCount: 3})
	current := types.Fingerprint{Columns: set2, Shape: types.Shape{Rows: 3, Cols: 1}}

	if cs := Diff(&old, current); !cs.Empty() {
		t.Errorf("null-count change alone should not be drift, got %+v", cs)
	}
}
