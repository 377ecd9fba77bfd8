package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"maintopt/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest runs the struct tags and turns the first failure into a
// message the client can act on.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		if fe.Param() != "" {
			return fmt.Errorf("%s fails %s=%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%s fails %s", field, fe.Tag())
	}
	return err
}

// validateProblemIn adds the coordinate range checks the tag language
// cannot express across both slices.
func validateProblemIn(in *model.ProblemIn) error {
	if err := validateRequest(in); err != nil {
		return err
	}
	check := func(kind string, cs []model.Coord) error {
		for i, c := range cs {
			if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
				return fmt.Errorf("%s[%d] coordinate out of range: %.4f,%.4f", kind, i, c.Lat, c.Lon)
			}
		}
		return nil
	}
	if err := check("assets", in.Assets); err != nil {
		return err
	}
	return check("bases", in.Bases)
}
