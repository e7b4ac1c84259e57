package iostore

import (
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/dictmatrix/pkg/model"
	"github.com/gnames/dictmatrix/pkg/schema"
	"github.com/gnames/gnfmt"
	"gorm.io/datatypes"
)

func dictToRow(d *model.Dictionary) schema.Dictionary {
	return schema.Dictionary{
		ID:             d.ID,
		APIKey:         d.APIKey,
		Meta:           datatypes.NewJSONType(d.Meta),
		NEntries:       d.NEntries,
		OriginID:       d.OriginID,
		OriginEndpoint: d.OriginEndpoint,
		OriginAPIKey:   d.OriginAPIKey,
		ImportTime:     d.ImportTime,
	}
}

func rowToDict(r schema.Dictionary) *model.Dictionary {
	return &model.Dictionary{
		ID:             r.ID,
		APIKey:         r.APIKey,
		Meta:           r.Meta.Data(),
		NEntries:       r.NEntries,
		OriginID:       r.OriginID,
		OriginEndpoint: r.OriginEndpoint,
		OriginAPIKey:   r.OriginAPIKey,
		ImportTime:     r.ImportTime,
	}
}

// entryToRow keeps the whole entry in the Data column. Fields that are
// not part of the entry JSON have columns of their own.
func entryToRow(e *model.Entry, dictID string, pos int) (schema.Entry, error) {
	enc := gnfmt.GNjson{}
	data, err := enc.Encode(e)
	if err != nil {
		return schema.Entry{}, err
	}
	res := schema.Entry{
		ID:           e.ID,
		DictID:       dictID,
		Position:     pos,
		Lemma:        e.Lemma,
		PartOfSpeech: string(e.PartOfSpeech),
		Language:     e.Language,
		OriginID:     e.OriginID,
		Data:         datatypes.JSON(data),
	}
	return res, nil
}

func rowToEntry(r schema.Entry) (model.Entry, error) {
	var res model.Entry
	enc := gnfmt.GNjson{}
	if err := enc.Decode(r.Data, &res); err != nil {
		return res, err
	}
	res.ID = r.ID
	res.DictID = r.DictID
	res.OriginID = r.OriginID
	if res.Senses == nil {
		res.Senses = []model.Sense{}
	}
	return res, nil
}

func importJobToRow(j *jobs.ImportJob) schema.ImportJob {
	return schema.ImportJob{
		ID:           j.ID,
		Kind:         string(j.Kind),
		State:        string(j.State),
		APIKey:       j.APIKey,
		DictID:       j.DictID,
		URL:          j.URL,
		File:         j.File,
		RemoteDictID: j.RemoteDictID,
		RemoteAPIKey: j.RemoteAPIKey,
		Meta:         datatypes.NewJSONType(j.Meta),
		Error:        j.Error,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func rowToImportJob(r schema.ImportJob) *jobs.ImportJob {
	return &jobs.ImportJob{
		ID:           r.ID,
		Kind:         jobs.Kind(r.Kind),
		State:        jobs.ImportState(r.State),
		APIKey:       r.APIKey,
		DictID:       r.DictID,
		URL:          r.URL,
		File:         r.File,
		RemoteDictID: r.RemoteDictID,
		RemoteAPIKey: r.RemoteAPIKey,
		Meta:         r.Meta.Data(),
		Error:        r.Error,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func linkingJobToRow(j *jobs.LinkingJob) (schema.LinkingJob, error) {
	enc := gnfmt.GNjson{}
	res := schema.LinkingJob{
		ID:           j.ID,
		State:        string(j.State),
		Message:      j.Message,
		Source:       datatypes.NewJSONType(j.Source),
		Target:       datatypes.NewJSONType(j.Target),
		Config:       datatypes.JSONMap(j.Config),
		ServiceURL:   j.ServiceURL,
		RemoteTaskID: j.RemoteTaskID,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.OurResult != nil {
		data, err := enc.Encode(j.OurResult)
		if err != nil {
			return res, err
		}
		res.OurResult = datatypes.JSON(data)
	}
	if j.OriginResult != nil {
		data, err := enc.Encode(j.OriginResult)
		if err != nil {
			return res, err
		}
		res.OriginResult = datatypes.JSON(data)
	}
	return res, nil
}

func rowToLinkingJob(r schema.LinkingJob) (*jobs.LinkingJob, error) {
	res := &jobs.LinkingJob{
		ID:           r.ID,
		State:        jobs.LinkingState(r.State),
		Message:      r.Message,
		Source:       r.Source.Data(),
		Target:       r.Target.Data(),
		Config:       map[string]any(r.Config),
		ServiceURL:   r.ServiceURL,
		RemoteTaskID: r.RemoteTaskID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	var err error
	if res.OurResult, err = decodeResult(r.OurResult); err != nil {
		return nil, err
	}
	if res.OriginResult, err = decodeResult(r.OriginResult); err != nil {
		return nil, err
	}
	return res, nil
}

// decodeResult keeps nil for absent results, so that jobs.LinkingJob
// can tell missing origin results from empty ones.
func decodeResult(data datatypes.JSON) ([]jobs.LinkResult, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	res := []jobs.LinkResult{}
	enc := gnfmt.GNjson{}
	if err := enc.Decode(data, &res); err != nil {
		return nil, err
	}
	return res, nil
}
