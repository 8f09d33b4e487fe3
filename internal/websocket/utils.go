// internal/websocket/utils.go
package websocket

import "encoding/json"

// mapToStruct converts a decoded message payload into a typed request.
func mapToStruct(data interface{}, target interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}

// DecodeData converts a message payload into target. Handlers in other
// packages use it to read their request types.
func DecodeData(data interface{}, target interface{}) error {
	return mapToStruct(data, target)
}
