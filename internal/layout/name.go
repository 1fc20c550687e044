package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"evoagg/internal/model"
)

const nameDelimiter = "_"

var ErrMalformedExperimentName = errors.New("malformed experiment name")

// DecodeName parses {num_obj}_{iter_path}_{combo}_{network_size}.
func DecodeName(name string) (model.ExperimentMeta, error) {
	parts := strings.Split(name, nameDelimiter)
	if len(parts) != 4 {
		return model.ExperimentMeta{}, fmt.Errorf("%w: %q has %d fields, want 4", ErrMalformedExperimentName, name, len(parts))
	}
	size, err := strconv.Atoi(parts[3])
	if err != nil {
		return model.ExperimentMeta{}, fmt.Errorf("%w: %q network size: %v", ErrMalformedExperimentName, name, err)
	}
	return model.ExperimentMeta{
		Name:        name,
		NumObj:      parts[0],
		IterPath:    parts[1],
		Combo:       parts[2],
		NetworkSize: size,
	}, nil
}
