package types

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"

	"riptide/internal/source"
)

// Field is one property of an object type. Fields are kept sorted by
// name so comparison and display are deterministic.
type Field struct {
	Name     source.StringID
	Type     TypeID
	Optional bool
}

// ObjectInfo stores metadata for an object type. Name is NoStringID
// for anonymous object literal types and carries the interface name
// otherwise.
type ObjectInfo struct {
	Name     source.StringID
	Fields   []Field
	complete bool
}

// Complete reports whether the fields have been filled in. Deferred
// interface slots stay incomplete until SetObjectFields runs.
func (info *ObjectInfo) Complete() bool { return info.complete }

// FieldByName returns the field with the given name.
func (info *ObjectInfo) FieldByName(name source.StringID) (*Field, bool) {
	for i := range info.Fields {
		if info.Fields[i].Name == name {
			return &info.Fields[i], true
		}
	}
	return nil, false
}

// RegisterObject creates or finds the anonymous object type with the
// given complete field list.
func (in *Interner) RegisterObject(fields []Field) TypeID {
	fields = normalizeFields(fields)
	key := objectKey(fields)
	if id, ok := in.objectIndex[key]; ok {
		return id
	}
	slot := in.appendObjectInfo(ObjectInfo{Fields: fields, complete: true})
	id := in.internRaw(Type{Kind: KindObject, Payload: slot})
	in.objectIndex[key] = id
	return id
}

// RegisterNamedObject allocates a fresh slot for an interface whose
// fields resolve later. Recursive interfaces depend on getting an id
// before their members are known.
func (in *Interner) RegisterNamedObject(name source.StringID) TypeID {
	slot := in.appendObjectInfo(ObjectInfo{Name: name})
	return in.internRaw(Type{Kind: KindObject, Payload: slot})
}

// SetObjectFields fills a deferred object slot.
func (in *Interner) SetObjectFields(id TypeID, fields []Field) {
	info := in.objectInfo(id)
	if info == nil {
		return
	}
	info.Fields = normalizeFields(fields)
	info.complete = true
}

// ObjectInfo returns metadata for the provided object TypeID.
func (in *Interner) ObjectInfo(id TypeID) (*ObjectInfo, bool) {
	info := in.objectInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) objectInfo(id TypeID) *ObjectInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindObject {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.objects) {
		return nil
	}
	return &in.objects[tt.Payload]
}

func (in *Interner) appendObjectInfo(info ObjectInfo) uint32 {
	in.objects = append(in.objects, info)
	return sideTableSlot(len(in.objects))
}

func normalizeFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func objectKey(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%d:%d:%t;", f.Name, f.Type, f.Optional)
	}
	return b.String()
}

func sideTableSlot(tableLen int) uint32 {
	slot, err := safecast.Conv[uint32](tableLen - 1)
	if err != nil {
		panic(fmt.Errorf("type side table overflow: %w", err))
	}
	return slot
}
