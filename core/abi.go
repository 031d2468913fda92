package core

import "fmt"

// ABI mirrors the subset of `/v1/chain/get_abi`'s response this client
// consumes: only the struct definitions used to pack action payloads.
type ABI struct {
	Structs []ABIStruct `json:"structs"`
}

// ABIStruct describes one named struct's field list, in declaration order.
type ABIStruct struct {
	Name   string     `json:"name"`
	Fields []ABIField `json:"fields"`
}

// ABIField is a single struct field: its name and its wire type string.
type ABIField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AbiProvider resolves an account's ABI. The serializer depends on this
// capability rather than performing RPC itself, so it stays pure and
// testable; the orchestrator (Client) supplies the real RPC-backed
// implementation.
type AbiProvider interface {
	GetABI(account string) (*ABI, error)
}

// FindStruct returns the struct named name within abi, or ErrUnknownAction
// listing the struct names actually present.
func (a *ABI) FindStruct(name string) (*ABIStruct, error) {
	for i := range a.Structs {
		if a.Structs[i].Name == name {
			return &a.Structs[i], nil
		}
	}
	names := make([]string, 0, len(a.Structs))
	for _, s := range a.Structs {
		names = append(names, s.Name)
	}
	return nil, fmt.Errorf("%w: %q not in %v", ErrUnknownAction, name, names)
}
