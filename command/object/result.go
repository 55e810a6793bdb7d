package object

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
)

type ObjectResult struct {
	ObjectID            types.ObjectID       `json:"objectId"`
	Version             types.SequenceNumber `json:"version"`
	Digest              types.Digest         `json:"digest"`
	Owner               types.Owner          `json:"owner"`
	Type                string               `json:"type,omitempty"`
	Balance             *uint64              `json:"balance,omitempty"`
	Modules             []string             `json:"modules,omitempty"`
	Contents            string               `json:"contents,omitempty"`
	PreviousTransaction types.Digest         `json:"previousTransaction"`
	StorageRebate       uint64               `json:"storageRebate"`
}

func NewObjectResult(obj *types.Object) *ObjectResult {
	r := &ObjectResult{
		ObjectID:            obj.ID,
		Version:             obj.Version,
		Digest:              obj.Digest(),
		Owner:               obj.Owner,
		PreviousTransaction: obj.PreviousTransaction,
		StorageRebate:       obj.StorageRebate,
	}

	if obj.IsPackage() {
		r.Modules = obj.ModuleNames()

		return r
	}

	r.Type = obj.Type.String()
	r.Contents = "0x" + hex.EncodeToString(obj.Body())

	if value, err := obj.CoinValue(); err == nil && obj.IsCoin() {
		r.Balance = &value
	}

	return r
}

func (r *ObjectResult) rows() []string {
	rows := []string{
		fmt.Sprintf("Object ID|%s", r.ObjectID),
		fmt.Sprintf("Version|%d", r.Version),
		fmt.Sprintf("Digest|%s", r.Digest),
		fmt.Sprintf("Owner|%s", r.Owner),
	}

	if r.Modules != nil {
		rows = append(rows, fmt.Sprintf("Modules|%s", strings.Join(r.Modules, ", ")))
	} else {
		rows = append(rows, fmt.Sprintf("Type|%s", r.Type))
	}

	if r.Balance != nil {
		rows = append(rows, fmt.Sprintf("Balance|%d", *r.Balance))
	}

	return append(rows,
		fmt.Sprintf("Previous Transaction|%s", r.PreviousTransaction),
		fmt.Sprintf("Storage Rebate|%d", r.StorageRebate),
	)
}

func (r *ObjectResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[OBJECT]\n")
	buffer.WriteString(helper.FormatKV(r.rows()))
	buffer.WriteString("\n")

	return buffer.String()
}

type ObjectListResult struct {
	Objects []*ObjectResult `json:"objects"`
}

func (r *ObjectListResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[OBJECTS]\n")

	if len(r.Objects) == 0 {
		buffer.WriteString("No objects found\n")

		return buffer.String()
	}

	rows := []string{"Object ID|Version|Type"}

	for _, obj := range r.Objects {
		kind := obj.Type
		if obj.Modules != nil {
			kind = "package"
		}

		rows = append(rows, fmt.Sprintf("%s|%d|%s", obj.ObjectID, obj.Version, kind))
	}

	buffer.WriteString(helper.FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}

type PastObjectResult struct {
	Status        types.PastObjectStatus `json:"status"`
	AskedVersion  types.SequenceNumber   `json:"askedVersion"`
	LatestVersion types.SequenceNumber   `json:"latestVersion,omitempty"`
	Reference     *types.ObjectRef       `json:"reference,omitempty"`
	Object        *ObjectResult          `json:"object,omitempty"`
}

func newPastObjectResult(read *types.PastObjectRead) *PastObjectResult {
	r := &PastObjectResult{
		Status:        read.Status,
		AskedVersion:  read.AskedVersion,
		LatestVersion: read.LatestVersion,
	}

	switch read.Status {
	case types.VersionFound:
		r.Reference = &read.Reference
		r.Object = NewObjectResult(read.Object)
	case types.ObjectDeleted:
		r.Reference = &read.Reference
	}

	return r
}

func (r *PastObjectResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[PAST OBJECT]\n")

	rows := []string{
		fmt.Sprintf("Status|%s", r.Status),
		fmt.Sprintf("Asked Version|%d", r.AskedVersion),
	}

	if r.Status == types.VersionTooHigh {
		rows = append(rows, fmt.Sprintf("Latest Version|%d", r.LatestVersion))
	}

	if r.Reference != nil {
		rows = append(rows, fmt.Sprintf("Reference|%s", r.Reference))
	}

	if r.Object != nil {
		rows = append(rows, r.Object.rows()...)
	}

	buffer.WriteString(helper.FormatKV(rows))
	buffer.WriteString("\n")

	return buffer.String()
}

type FieldsResult struct {
	Parent types.ObjectID           `json:"parent"`
	Fields []types.DynamicFieldInfo `json:"fields"`
}

func (r *FieldsResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString(fmt.Sprintf("\n[DYNAMIC FIELDS OF %s]\n", r.Parent))

	if len(r.Fields) == 0 {
		buffer.WriteString("No dynamic fields\n")

		return buffer.String()
	}

	rows := []string{"Name|Kind|Object ID|Version|Object Type"}
	for _, f := range r.Fields {
		rows = append(rows, fmt.Sprintf("%v|%s|%s|%d|%s", f.Name.Value, f.Kind, f.ObjectID, f.Version, f.ObjectType))
	}

	buffer.WriteString(helper.FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}

type DeleteResult struct {
	Reference types.ObjectRef `json:"deleted"`
}

func (r *DeleteResult) GetOutput() string {
	return fmt.Sprintf("\n[OBJECT DELETED]\n%s\n", helper.FormatKV([]string{
		fmt.Sprintf("Object ID|%s", r.Reference.ObjectID),
		fmt.Sprintf("Last Version|%d", r.Reference.Version),
	}))
}
