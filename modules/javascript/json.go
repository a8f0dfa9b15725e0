package javascript

import (
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"
)

// toJSONString serializes the input so it can be rebuilt inside the runtime
// as plain JavaScript objects, independent of the caller's Go values.
func toJSONString(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("input is not JSON-serializable: %w", err)
	}
	return string(raw), nil
}

// parseJSON rebuilds a JSON document as a native value of vm.
func parseJSON(vm *goja.Runtime, raw string) (goja.Value, error) {
	jsonObj := vm.Get("JSON")
	if jsonObj == nil {
		return nil, fmt.Errorf("runtime has no JSON object")
	}
	parse, ok := goja.AssertFunction(jsonObj.ToObject(vm).Get("parse"))
	if !ok {
		return nil, fmt.Errorf("runtime has no JSON.parse")
	}
	return parse(goja.Undefined(), vm.ToValue(raw))
}
