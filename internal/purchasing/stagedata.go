package purchasing

// Stage namespaces that may carry accumulated field bags. DRAFT and the
// terminal side-exits never accumulate data.
const (
	stageKeyManufacturing = "manufacturing"
	stageKeyOcean         = "ocean"
	stageKeyWarehouse     = "warehouse"
	stageKeyShipped       = "shipped"
)

// StageData holds the accumulated per-stage field bags, keyed by the stage's
// lower-case namespace. Values persist across later transitions and
// regressions; nothing here is ever cleared by advancing.
type StageData map[string]map[string]string

// StageKey maps a stage to its stage-data namespace. Stages that carry no
// data return ok=false.
func StageKey(stage Stage) (string, bool) {
	switch stage {
	case StageManufacturing:
		return stageKeyManufacturing, true
	case StageOcean:
		return stageKeyOcean, true
	case StageWarehouse:
		return stageKeyWarehouse, true
	case StageShipped:
		return stageKeyShipped, true
	default:
		return "", false
	}
}

func validStageKey(key string) bool {
	switch key {
	case stageKeyManufacturing, stageKeyOcean, stageKeyWarehouse, stageKeyShipped:
		return true
	default:
		return false
	}
}

// Clone deep-copies the stage data so merges never alias the source maps.
func (d StageData) Clone() StageData {
	if d == nil {
		return nil
	}
	out := make(StageData, len(d))
	for key, fields := range d {
		bag := make(map[string]string, len(fields))
		for k, v := range fields {
			bag[k] = v
		}
		out[key] = bag
	}
	return out
}

// Merge returns a copy of the stage data with newFields shallow-merged into
// the given stage's namespace: new keys added, existing keys overwritten,
// keys absent from newFields untouched. Other namespaces are not modified.
func (d StageData) Merge(stageKey string, newFields map[string]string) (StageData, error) {
	if !validStageKey(stageKey) {
		return nil, &UnknownStageError{Stage: Stage(stageKey)}
	}
	out := d.Clone()
	if out == nil {
		out = make(StageData)
	}
	if len(newFields) == 0 {
		return out, nil
	}
	bag := out[stageKey]
	if bag == nil {
		bag = make(map[string]string, len(newFields))
	}
	for k, v := range newFields {
		bag[k] = v
	}
	out[stageKey] = bag
	return out, nil
}

// Field looks up a single field in a stage namespace.
func (d StageData) Field(stageKey, field string) (string, bool) {
	bag, ok := d[stageKey]
	if !ok {
		return "", false
	}
	v, ok := bag[field]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
