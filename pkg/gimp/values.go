package gimp

import "fmt"

// PDB calls print their results as a list, e.g. (gimp-image-width 1)
// prints "(200)" and (gimp-image-get-layers 1) prints "(2 #(12 34))". The
// helpers below evaluate a script and pull a typed first result out of that
// list.

func (c *Client) evalFirst(script string) (any, error) {
	v, err := c.EvalValue(script)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("expected a result list, got %T", v)
	}
	return list[0], nil
}

func (c *Client) evalInt(script string) (int, error) {
	v, err := c.evalFirst(script)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("expected an int result, got %T", v)
	}
	return n, nil
}

func (c *Client) evalString(script string) (string, error) {
	v, err := c.evalFirst(script)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string result, got %T", v)
	}
	return s, nil
}

// evalBool accepts the shapes PDB booleans print as across Script-Fu
// versions: 0/1, #t/#f, and the TRUE/FALSE constants.
func (c *Client) evalBool(script string) (bool, error) {
	v, err := c.evalFirst(script)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case int:
		return b != 0, nil
	case bool:
		return b, nil
	case Symbol:
		switch b {
		case "TRUE":
			return true, nil
		case "FALSE":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected a boolean result, got %v", v)
}

// evalIntVector returns the ints of the first vector in the result list,
// for (count #(ids...)) shaped replies.
func (c *Client) evalIntVector(script string) ([]int, error) {
	v, err := c.EvalValue(script)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a result list, got %T", v)
	}
	for _, item := range list {
		vec, ok := item.([]any)
		if !ok {
			continue
		}
		ints := make([]int, 0, len(vec))
		for _, elem := range vec {
			n, ok := elem.(int)
			if !ok {
				return nil, fmt.Errorf("expected an int vector, got %T element", elem)
			}
			ints = append(ints, n)
		}
		return ints, nil
	}
	return nil, fmt.Errorf("no vector in result %v", list)
}
