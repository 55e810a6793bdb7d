package command

import (
	"encoding/json"
	"fmt"
)

type jsonOutput struct {
	commonOutputFormatter
}

func (jo *jsonOutput) WriteOutput() {
	if jo.errorOutput != nil {
		_, _ = fmt.Fprintln(jo.stderr, jo.getErrorOutput())

		return
	}

	_, _ = fmt.Fprintln(jo.stdout, jo.getCommandOutput())
}

func (jo *jsonOutput) getErrorOutput() string {
	if jo.errorOutput == nil {
		return ""
	}

	return marshalJSONIndent(struct {
		Err string `json:"error"`
	}{
		Err: jo.errorOutput.Error(),
	})
}

func (jo *jsonOutput) getCommandOutput() string {
	if jo.commandOutput == nil {
		return ""
	}

	return marshalJSONIndent(jo.commandOutput)
}

func marshalJSONIndent(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err.Error()
	}

	return string(bytes)
}
