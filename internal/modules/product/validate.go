package product

import (
	"context"
	"path/filepath"
	"strings"
)

const (
	maxNameLength = 255
	maxSKULength  = 255
	maxImageBytes = 2 << 20
)

var imageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

const (
	msgNameRequired     = "The name field is required."
	msgNameMax          = "The name may not be greater than 255 characters."
	msgSKURequired      = "The SKU field is required."
	msgSKUMax           = "The SKU may not be greater than 255 characters."
	msgSKUTaken         = "The SKU has already been taken."
	msgPriceRequired    = "The price field is required."
	msgPriceNumber      = "The price must be a number."
	msgPriceMin         = "The price must be at least 0."
	msgQuantityRequired = "The quantity field is required."
	msgQuantityInteger  = "The quantity must be an integer."
	msgQuantityMin      = "The quantity must be at least 0."
	msgImageNotImage    = "The file must be an image."
	msgImageMimes       = "The image must be a file of type: jpeg, png, jpg, gif."
	msgImageMax         = "The image may not be greater than 2MB."
)

// filter reproduces the update-payload rule exactly: numeric fields are kept
// even when zero, string fields only when non-blank after trimming, nil
// fields are dropped.
func filter(in Input) Input {
	out := Input{Price: in.Price, Quantity: in.Quantity, Image: in.Image}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		out.Name = in.Name
	}
	if in.SKU != nil && strings.TrimSpace(*in.SKU) != "" {
		out.SKU = in.SKU
	}
	return out
}

// validate checks the supplied fields against the product rules and returns
// the write set. When required is true, missing name/sku/price/quantity are
// reported. The SKU uniqueness check ignores the row excludeID.
func (s *service) validate(ctx context.Context, in Input, excludeID int64, required bool) (Fields, map[string][]string, error) {
	fieldErrors := map[string][]string{}
	fail := func(field, msg string) {
		fieldErrors[field] = append(fieldErrors[field], msg)
	}

	f := Fields{}

	if in.Name == nil {
		if required {
			fail("name", msgNameRequired)
		}
	} else if len(*in.Name) > maxNameLength {
		fail("name", msgNameMax)
	} else {
		f.Name = in.Name
	}

	if in.SKU == nil {
		if required {
			fail("sku", msgSKURequired)
		}
	} else if len(*in.SKU) > maxSKULength {
		fail("sku", msgSKUMax)
	} else {
		taken, err := s.repo.SKUExists(ctx, *in.SKU, excludeID)
		if err != nil {
			return Fields{}, nil, err
		}
		if taken {
			fail("sku", msgSKUTaken)
		} else {
			f.SKU = in.SKU
		}
	}

	if in.Price == nil {
		if required {
			fail("price", msgPriceRequired)
		}
	} else if in.Price.IsNegative() {
		fail("price", msgPriceMin)
	} else {
		f.Price = in.Price
	}

	if in.Quantity == nil {
		if required {
			fail("quantity", msgQuantityRequired)
		}
	} else if *in.Quantity < 0 {
		fail("quantity", msgQuantityMin)
	} else {
		f.Quantity = in.Quantity
	}

	if in.Image != nil {
		switch {
		case in.Image.ContentType != "" && !strings.HasPrefix(in.Image.ContentType, "image/"):
			fail("image", msgImageNotImage)
		case !imageExtensions[strings.ToLower(filepath.Ext(in.Image.Filename))]:
			fail("image", msgImageMimes)
		case in.Image.Size > maxImageBytes:
			fail("image", msgImageMax)
		}
	}

	return f, fieldErrors, nil
}
