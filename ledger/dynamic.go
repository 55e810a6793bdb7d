package ledger

import (
	"fmt"

	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/executor"
	"github.com/dogechain-lab/moveledger/state"
	"github.com/dogechain-lab/moveledger/types"
)

// fieldTypes splits 0x2::dynamic_field::Field<N, V> into N and V
func fieldTypes(obj *types.Object) (types.TypeTag, types.TypeTag, bool) {
	tag := executor.DynamicFieldType
	if obj.Type == nil || !obj.Type.Is(tag.Address, tag.Module, tag.Name) || len(obj.Type.TypeParams) != 2 {
		return "", "", false
	}

	return obj.Type.TypeParams[0], obj.Type.TypeParams[1], true
}

func decodeFieldName(nameType types.TypeTag, b []byte) types.DynamicFieldName {
	name := types.DynamicFieldName{Type: nameType}

	value, n, err := types.DecodeBCSValue(nameType, b)
	if err != nil {
		return name
	}

	name.Value = value
	name.BCS = types.CopyBytes(b[:n])

	return name
}

// DynamicFields lists the dynamic fields of parent, ordered by field id.
// Object fields report the wrapped child rather than the field itself.
func (e *Engine) DynamicFields(parent types.ObjectID) ([]types.DynamicFieldInfo, error) {
	if _, ok := e.store.Object(parent); !ok {
		return nil, fmt.Errorf("%w: %s", state.ErrObjectNotFound, parent)
	}

	var fields []types.DynamicFieldInfo

	for _, field := range e.store.ChildrenOf(parent) {
		nameType, valueType, ok := fieldTypes(field)
		if !ok {
			continue
		}

		body := field.Body()

		if !executor.IsDynamicObjectName(nameType) {
			fields = append(fields, types.DynamicFieldInfo{
				Name:       decodeFieldName(nameType, body),
				Kind:       types.DynamicField,
				ObjectType: valueType,
				ObjectID:   field.ID,
				Version:    field.Version,
				Digest:     field.Digest(),
			})

			continue
		}

		if len(body) < types.AddressLength {
			continue
		}

		wrapper, err := nameType.StructTag()
		if err != nil || len(wrapper.TypeParams) != 1 {
			continue
		}

		childID := types.BytesToObjectID(body[len(body)-types.AddressLength:])

		child, ok := e.store.Object(childID)
		if !ok || child.Type == nil {
			continue
		}

		name := decodeFieldName(wrapper.TypeParams[0], body[:len(body)-types.AddressLength])

		fields = append(fields, types.DynamicFieldInfo{
			Name:       name,
			Kind:       types.DynamicObject,
			ObjectType: child.Type.TypeTag(),
			ObjectID:   child.ID,
			Version:    child.Version,
			Digest:     child.Digest(),
		})
	}

	return fields, nil
}

// DynamicFieldObject resolves the field of parent named name. For object
// fields the wrapped child is returned.
func (e *Engine) DynamicFieldObject(parent types.ObjectID, name types.DynamicFieldName) (*types.Object, error) {
	owner := types.ObjectOwner(parent)

	fieldID := crypto.DeriveDynamicFieldID(parent, name.Type, name.BCS)
	if field, ok := e.store.Object(fieldID); ok && field.Owner == owner {
		return field, nil
	}

	wrapperID := crypto.DeriveDynamicFieldID(parent, executor.DynamicObjectNameType(name.Type), name.BCS)
	if field, ok := e.store.Object(wrapperID); ok && field.Owner == owner {
		body := field.Body()
		if len(body) >= types.AddressLength {
			childID := types.BytesToObjectID(body[len(body)-types.AddressLength:])
			if child, ok := e.store.Object(childID); ok {
				return child, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: field %v of %s", state.ErrObjectNotFound, name.Value, parent)
}
