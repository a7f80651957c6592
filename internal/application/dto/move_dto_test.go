package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveAnimalResponse_FormaPorEstado(t *testing.T) {
	from := "k-1"
	tests := []struct {
		name string
		in   MoveAnimalResponse
		want string
	}{
		{
			name: "noop",
			in:   MoveAnimalResponse{Status: "noop", AnimalID: "a-1", KennelID: "k-1"},
			want: `{"status":"noop","animal_id":"a-1","kennel_id":"k-1"}`,
		},
		{
			name: "removed sin estadía previa",
			in:   MoveAnimalResponse{Status: "removed", AnimalID: "a-1"},
			want: `{"status":"removed","animal_id":"a-1","from":null}`,
		},
		{
			name: "moved",
			in: MoveAnimalResponse{
				Status: "moved", AnimalID: "a-1", From: &from, To: "k-2",
				Occupied: 3, Capacity: 2, StayID: "s-9", Overflow: true,
			},
			want: `{"status":"moved","animal_id":"a-1","from":"k-1","to":"k-2","occupied":3,"capacity":2,"stay_id":"s-9","overflow":true}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}
