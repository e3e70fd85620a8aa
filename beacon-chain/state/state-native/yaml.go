package state_native

import (
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/state"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
)

// snapshot is the on-disk envelope of a state. Fork selects which of the two
// bodies is populated.
type snapshot struct {
	Fork   string                   `json:"fork"`
	Phase0 *ethpb.BeaconState       `json:"phase0,omitempty"`
	Altair *ethpb.BeaconStateAltair `json:"altair,omitempty"`
}

// UnmarshalYAML decodes a yaml snapshot into a beacon state of the fork it names.
func UnmarshalYAML(enc []byte) (state.BeaconState, error) {
	s := &snapshot{}
	if err := yaml.Unmarshal(enc, s); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal state snapshot")
	}
	v, ok := version.FromString(s.Fork)
	if !ok {
		return nil, errors.Errorf("unknown fork %q in state snapshot", s.Fork)
	}
	switch v {
	case version.Phase0:
		if s.Phase0 == nil {
			return nil, errors.New("phase0 snapshot has no phase0 body")
		}
		return InitializeFromProtoUnsafePhase0(s.Phase0)
	case version.Altair:
		if s.Altair == nil {
			return nil, errors.New("altair snapshot has no altair body")
		}
		return InitializeFromProtoUnsafeAltair(s.Altair)
	default:
		return nil, errors.Errorf("unsupported fork %s", version.String(v))
	}
}

// MarshalYAML encodes a beacon state as a yaml snapshot.
func MarshalYAML(st state.ReadOnlyBeaconState) ([]byte, error) {
	b, ok := st.(*BeaconState)
	if !ok {
		return nil, errors.Errorf("cannot marshal state of type %T", st)
	}
	s := &snapshot{Fork: version.String(b.Version())}
	switch pb := b.ToProto().(type) {
	case *ethpb.BeaconState:
		s.Phase0 = pb
	case *ethpb.BeaconStateAltair:
		s.Altair = pb
	default:
		return nil, errors.Errorf("unsupported state version %d", b.Version())
	}
	enc, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "could not marshal state snapshot")
	}
	return enc, nil
}

// SnappySuffix marks a snapshot file holding snappy block compressed yaml, as in
// "pre.yaml_snappy".
const SnappySuffix = "_snappy"

// LoadYAML reads a yaml snapshot from disk. Paths ending in SnappySuffix are
// decompressed first.
func LoadYAML(path string) (state.BeaconState, error) {
	enc, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	if strings.HasSuffix(path, SnappySuffix) {
		if enc, err = snappy.Decode(nil /* dst */, enc); err != nil {
			return nil, errors.Wrapf(err, "could not decompress %s", path)
		}
	}
	return UnmarshalYAML(enc)
}

// SaveYAML writes a yaml snapshot to disk, snappy compressed if path ends in
// SnappySuffix.
func SaveYAML(path string, st state.ReadOnlyBeaconState) error {
	enc, err := MarshalYAML(st)
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, SnappySuffix) {
		enc = snappy.Encode(nil /* dst */, enc)
	}
	return errors.Wrapf(os.WriteFile(path, enc, 0600), "could not write %s", path)
}
