// file: services/broe_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/sian-alcock/pairshead-2020/database"
	"github.com/sian-alcock/pairshead-2020/models"
)

// British Rowing Online Entry (BROE) WebAPI 接入
// 凭据走环境变量（USERAPI / USERAUTH），meeting 取 current EventMeetingKey

const (
	broeMeetingSetupURL    = "https://webapi.britishrowing.org/api/OE2MeetingSetup"
	broeCrewInformationURL = "https://webapi.britishrowing.org/api/OE2CrewInformation"
)

var broeHTTPClient = &http.Client{Timeout: 60 * time.Second}

type broeEvent struct {
	ID           uint32 `json:"id"`
	Name         string `json:"name"`
	OverrideName string `json:"overrideName"`
	Info         string `json:"info"`
	Type         string `json:"type"`
	Gender       string `json:"gender"`
}

type broeBand struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	EventID uint32 `json:"eventId"`
}

type broeClub struct {
	ID           uint32 `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	IndexCode    string `json:"indexCode"`
	Colours      string `json:"colours"`
	BladeImage   string `json:"bladeImage"`
}

// broeMeetingSetup OE2MeetingSetup 响应体，赛事/分组/俱乐部一次下发
type broeMeetingSetup struct {
	Events []broeEvent `json:"events"`
	Bands  []broeBand  `json:"bands"`
	Clubs  []broeClub  `json:"clubs"`
}

type broeCompetitor struct {
	Surname string  `json:"surname"`
	Gender  string  `json:"gender"`
	CrewID  *uint32 `json:"crewId"`
}

type broeCrew struct {
	ID                       uint32  `json:"id"`
	Name                     string  `json:"name"`
	CompositeCode            string  `json:"compositeCode"`
	ClubID                   uint32  `json:"clubId"`
	RowingCRI                int     `json:"rowingCRI"`
	ScullingCRI              int     `json:"scullingCRI"`
	EventID                  uint32  `json:"eventId"`
	BandID                   *uint32 `json:"bandId"`
	Status                   string  `json:"status"`
	CustomCrewNumber         int     `json:"customCrewNumber"`
	BoatingPermissionsClubID *uint32 `json:"boatingPermissionsClubID"`
	CompetitionNotes         string  `json:"competitionNotes"`
	ContactName              string  `json:"competitionContactName"`
	ContactHomePhone         string  `json:"competitionContactHomePhone"`
	ContactMobilePhone       string  `json:"competitionContactMobilePhone"`
	ContactWorkPhone         string  `json:"competitionContactWorkPhone"`
}

type broeCrewResponse struct {
	Crews       []broeCrew       `json:"crews"`
	Competitors []broeCompetitor `json:"competitors"`
}

func (e broeEvent) toModel() models.Event {
	return models.Event{
		ID:           e.ID,
		Name:         e.Name,
		OverrideName: e.OverrideName,
		Info:         e.Info,
		Type:         e.Type,
		Gender:       models.EventGender(e.Gender),
	}
}

func (b broeBand) toModel() models.Band {
	return models.Band{ID: b.ID, Name: b.Name, EventID: b.EventID}
}

func (c broeClub) toModel() models.Club {
	return models.Club{
		ID:           c.ID,
		Name:         c.Name,
		Abbreviation: c.Abbreviation,
		IndexCode:    c.IndexCode,
		Colours:      c.Colours,
		BladeImage:   c.BladeImage,
	}
}

// broeRequest 对 BROE 端点发一次请求并解码响应
// 所有端点的请求体一样：api key + 当前 meeting 标识
func broeRequest(url string, out interface{}) error {
	var meeting models.EventMeetingKey
	if err := database.DB.Where("current_event_meeting = ?", true).First(&meeting).Error; err != nil {
		return fmt.Errorf("no current event meeting key configured: %w", err)
	}

	payload, err := json.Marshal(map[string]string{
		"api_key":           os.Getenv("USERAPI"),
		"meetingIdentifier": meeting.EventMeetingKey,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", os.Getenv("USERAUTH"))

	resp, err := broeHTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("BROE API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode BROE response: %w", err)
	}
	return nil
}

// MeetingSetupSummary 一次 meeting 导入写入的行数
type MeetingSetupSummary struct {
	Events int `json:"events"`
	Bands  int `json:"bands"`
	Clubs  int `json:"clubs"`
}

// ImportMeetingSetupFromBROE 拉取赛事定义并整表替换 event/band/club
// 在船只导入之前跑，不然 crew 的外键没有落点
func ImportMeetingSetupFromBROE() (MeetingSetupSummary, error) {
	var setup broeMeetingSetup
	if err := broeRequest(broeMeetingSetupURL, &setup); err != nil {
		return MeetingSetupSummary{}, err
	}

	var summary MeetingSetupSummary
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM pairshead_band").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM pairshead_event").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM pairshead_club").Error; err != nil {
			return err
		}

		for _, entry := range setup.Events {
			event := entry.toModel()
			if err := tx.Create(&event).Error; err != nil {
				return fmt.Errorf("event %d: %w", entry.ID, err)
			}
			summary.Events++
		}
		for _, entry := range setup.Bands {
			band := entry.toModel()
			if err := tx.Create(&band).Error; err != nil {
				return fmt.Errorf("band %d: %w", entry.ID, err)
			}
			summary.Bands++
		}
		for _, entry := range setup.Clubs {
			club := entry.toModel()
			if err := tx.Create(&club).Error; err != nil {
				return fmt.Errorf("club %d: %w", entry.ID, err)
			}
			summary.Clubs++
		}
		return nil
	})
	if err != nil {
		return MeetingSetupSummary{}, err
	}

	log.Printf("BROE meeting setup import completed: %d events, %d bands, %d clubs.",
		summary.Events, summary.Bands, summary.Clubs)
	return summary, nil
}

// competitorRows 过滤成可入库的船员行，没挂船的条目直接跳过
func competitorRows(entries []broeCompetitor) []models.Competitor {
	rows := make([]models.Competitor, 0, len(entries))
	for _, entry := range entries {
		if entry.CrewID == nil {
			continue
		}
		rows = append(rows, models.Competitor{
			CrewID:   *entry.CrewID,
			LastName: entry.Surname,
			Gender:   entry.Gender,
		})
	}
	return rows
}

// ImportCompetitorsFromBROE 拉取船员名单并整表替换 competitor
// 完成后由调用方触发全量重算刷新 competitor_names
func ImportCompetitorsFromBROE() (int, error) {
	var decoded broeCrewResponse
	if err := broeRequest(broeCrewInformationURL, &decoded); err != nil {
		return 0, err
	}

	rows := competitorRows(decoded.Competitors)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM pairshead_competitor").Error; err != nil {
			return err
		}
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("competitor %q: %w", rows[i].LastName, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("BROE competitor import completed: %d competitors.", len(rows))
	return len(rows), nil
}

// ImportCrewsFromBROE 从 BROE 拉取全部报名数据并整表替换本地 crew 数据
// personal=true 时附带 on-the-day 联系人字段；完成后由调用方触发全量重算
func ImportCrewsFromBROE(personal bool) (int, error) {
	var decoded broeCrewResponse
	if err := broeRequest(broeCrewInformationURL, &decoded); err != nil {
		return 0, err
	}

	imported := 0
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 整表替换：先清 crew 及其下游数据，避免留下孤儿打点
		if err := tx.Exec("DELETE FROM pairshead_race_time").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM pairshead_original_event_category").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM pairshead_crew").Error; err != nil {
			return err
		}

		for _, entry := range decoded.Crews {
			crew := models.Crew{
				ID:            entry.ID,
				Name:          entry.Name,
				CompositeCode: entry.CompositeCode,
				ClubID:        entry.ClubID,
				HostClubID:    entry.BoatingPermissionsClubID,
				RowingCRI:     entry.RowingCRI,
				ScullingCRI:   entry.ScullingCRI,
				EventID:       entry.EventID,
				BandID:        entry.BandID,
				Status:        models.CrewStatus(entry.Status),
				BibNumber:     entry.CustomCrewNumber,
				TimeOnly:      entry.CompetitionNotes == "TO",
			}
			if personal {
				crew.OTDContact = entry.ContactName
				crew.OTDHomePhone = entry.ContactHomePhone
				crew.OTDMobilePhone = entry.ContactMobilePhone
				crew.OTDWorkPhone = entry.ContactWorkPhone
			}
			if err := tx.Create(&crew).Error; err != nil {
				return fmt.Errorf("crew %d: %w", entry.ID, err)
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	now := time.Now()
	database.DB.Model(&models.GlobalSettings{}).Where("id = ?", 1).
		Update("broe_data_last_update", &now)

	log.Printf("BROE import completed: %d crews.", imported)
	return imported, nil
}
