package seed

import (
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/example/pujapath/internal/models"
	"github.com/example/pujapath/internal/utils"
)

var pandits = []models.Pandit{
	{Name: "Pandit Govind Jha", Location: "Delhi, NCR", Experience: "15+ Years", ImageURL: "govind 1.jpg", Availability: true, IsApproved: true},
	{Name: "Pandit Medhansh Acharya", Location: "Mumbai, Maharashtra", Experience: "10+ Years", ImageURL: "Medhansh 1.jpg", Availability: true, IsApproved: true},
	{Name: "Pandit Pankaj Jha", Location: "Bangalore, Karnataka", Experience: "20+ Years", ImageURL: "pankaj-jha1.jpg", Availability: false, IsApproved: true},
	{Name: "Pandit Shankar Pandit", Location: "Pune, Maharashtra", Experience: "12+ Years", ImageURL: "shankar pandit 1.jpg", Availability: true, IsApproved: true},
}

var materials = []models.PujaMaterial{
	{Name: "Premium Incense Sticks Set", Price: 299, ImageURL: "pujamaterial/Premium Incense Sticks Set.webp", Description: "High-quality incense sticks for daily puja"},
	{Name: "Brass Diya Collection", Price: 599, ImageURL: "pujamaterial/brass collection.jpg", Description: "Traditional brass diyas for auspicious occasions"},
	{Name: "Sacred Puja Thali Set", Price: 1299, ImageURL: "pujamaterial/Puja thali set.webp", Description: "Complete puja thali with all essentials"},
	{Name: "Organic Camphor Tablets", Price: 149, ImageURL: "pujamaterial/camphor tablet.webp", Description: "Pure organic camphor for aarti"},
}

var testimonials = []models.Testimonial{
	{Author: "Priya Sharma", Location: "Mumbai, Maharashtra", Rating: 5, AuthorImage: "testimonial/priya.jpg", Content: "Excellent service! The pandit was very knowledgeable and performed the puja with great devotion."},
	{Author: "Rajesh Kumar", Location: "Delhi, NCR", Rating: 5, AuthorImage: "testimonial/rajesh.jpg", Content: "Very professional and punctual. The puja materials were authentic and of high quality."},
	{Author: "Anjali Verma", Location: "Bangalore, Karnataka", Rating: 5, AuthorImage: "testimonial/anjali.jpg", Content: "Amazing experience! Everything was perfectly organized and the pandit explained every ritual."},
	{Author: "Vikram Singh", Location: "Jaipur, Rajasthan", Rating: 4, AuthorImage: "testimonial/vikram.jpg", Content: "Good service overall. The booking process was smooth and hassle-free."},
}

var bundles = []models.Bundle{
	{Name: "Griha Pravesh Complete Package", OriginalPrice: 5999, DiscountedPrice: 4499, ImageURL: "bundle/griha parvesh.jpg", Description: "Complete package for house warming ceremony"},
	{Name: "Satyanarayan Puja Bundle", OriginalPrice: 3499, DiscountedPrice: 2799, ImageURL: "bundle/Satyanarayan Puja Bundle.jpg", Description: "Everything needed for Satyanarayan Katha"},
	{Name: "Monthly Puja Essentials Box", OriginalPrice: 999, DiscountedPrice: 799, ImageURL: "bundle/Monthly Puja Essentials Box.webp", Description: "Monthly subscription box for daily puja needs"},
	{Name: "Wedding Ritual Complete Set", OriginalPrice: 15999, DiscountedPrice: 12999, ImageURL: "bundle/Wedding Ritual Complete.webp", Description: "Complete set for wedding ceremonies"},
}

var temples = []models.Temple{
	{
		Name: "Kashi Vishwanath", Location: "Varanasi", State: "Uttar Pradesh", Deity: "Lord Shiva",
		ImageURL:     "temples/kashi.jfif",
		Description:  "One of the most famous Hindu temples dedicated to Lord Shiva. Located on the western bank of the holy river Ganga.",
		Significance: "One of the twelve Jyotirlingas. Believed to liberate souls from the cycle of birth and death.",
		StartingPrice: 1100, IsFeatured: true, IsActive: true,
		Pujas: []models.TemplePuja{
			{Name: "Rudrabhishek", Price: 1100, Duration: "2-3 hours", Description: "Sacred abhishek of Lord Shiva with holy ingredients", Benefits: "Removes obstacles, brings peace and prosperity", Includes: "Video proof, Prasad, Aashirwad box", IsPopular: true, IsActive: true},
			{Name: "Mahashivratri Puja", Price: 2100, Duration: "4-5 hours", Description: "Special puja performed on Mahashivratri", Benefits: "Spiritual upliftment, blessings of Lord Shiva", Includes: "Video proof, Prasad, Rudraksha, Aashirwad box", IsPopular: true, IsActive: true},
			{Name: "Kaal Sarp Dosh Puja", Price: 5100, Duration: "3-4 hours", Description: "Removes Kaal Sarp Dosh from kundali", Benefits: "Relief from Kaal Sarp Dosh effects", Includes: "Video proof, Prasad, Puja certificate", IsActive: true},
		},
	},
	{
		Name: "Vaishno Devi", Location: "Katra", State: "Jammu & Kashmir", Deity: "Maa Vaishno Devi",
		ImageURL:     "temples/vaishno devi.jpg",
		Description:  "One of the most revered Hindu shrines dedicated to Goddess Vaishno Devi, located in the Trikuta Mountains.",
		Significance: "One of the Shakti Peethas. Millions of devotees visit annually to seek blessings of the Divine Mother.",
		StartingPrice: 1500, IsFeatured: true, IsActive: true,
		Pujas: []models.TemplePuja{
			{Name: "Mata Ki Aarti", Price: 1500, Duration: "1-2 hours", Description: "Participate in the sacred aarti of Maa Vaishno Devi", Benefits: "Divine blessings, fulfillment of wishes", Includes: "Video proof, Prasad", IsPopular: true, IsActive: true},
			{Name: "Navratri Puja", Price: 2500, Duration: "2-3 hours", Description: "Special puja during Navratri festival", Benefits: "Blessings of all nine forms of Goddess", Includes: "Video proof, Prasad, Chunri, Aashirwad box", IsPopular: true, IsActive: true},
			{Name: "Akhand Jyoti", Price: 1100, Duration: "24 hours", Description: "Continuous lamp lighting in your name", Benefits: "Continuous divine blessings", Includes: "Photo proof, Certificate", IsActive: true},
		},
	},
	{
		Name: "Ram Mandir", Location: "Ayodhya", State: "Uttar Pradesh", Deity: "Lord Ram",
		ImageURL:     "temples/ayodhya.webp",
		Description:  "The newly constructed grand temple at the birthplace of Lord Ram in Ayodhya.",
		Significance: "Ram Janmabhoomi - the sacred birthplace of Lord Ram. A symbol of faith and devotion.",
		StartingPrice: 2100, IsFeatured: true, IsActive: true,
		Pujas: []models.TemplePuja{
			{Name: "Ram Darshan", Price: 2100, Duration: "1-2 hours", Description: "Special darshan and puja at Ram Janmabhoomi", Benefits: "Blessings of Lord Ram, peace and prosperity", Includes: "Video proof, Prasad, Aashirwad box", IsPopular: true, IsActive: true},
			{Name: "Ram Navami Puja", Price: 3100, Duration: "3-4 hours", Description: "Special puja on Ram Navami", Benefits: "Divine blessings on auspicious day", Includes: "Video proof, Prasad, Ram idol, Aashirwad box", IsPopular: true, IsActive: true},
			{Name: "Saryu Aarti", Price: 1500, Duration: "1 hour", Description: "Evening aarti at the holy Saryu river", Benefits: "Purification and spiritual peace", Includes: "Video proof, Prasad", IsActive: true},
		},
	},
	{
		Name: "Tirupati Balaji", Location: "Tirumala", State: "Andhra Pradesh", Deity: "Lord Venkateswara",
		ImageURL:     "temples/Tirupati.jfif",
		Description:  "The richest and most visited temple in the world, dedicated to Lord Venkateswara.",
		Significance: "Known as the abode of Lord Vishnu in Kali Yuga. Grants all wishes of devotees.",
		StartingPrice: 1800, IsFeatured: true, IsActive: true,
		Pujas: []models.TemplePuja{
			{Name: "Suprabhatam", Price: 1800, Duration: "1-2 hours", Description: "Early morning wake-up seva for the Lord", Benefits: "Divine start to your endeavors", Includes: "Video proof, Prasad, Laddu", IsPopular: true, IsActive: true},
			{Name: "Archana", Price: 1100, Duration: "30 minutes", Description: "Chanting of divine names with offerings", Benefits: "Fulfillment of specific wishes", Includes: "Video proof, Prasad", IsPopular: true, IsActive: true},
			{Name: "Kalyanotsavam", Price: 5100, Duration: "2-3 hours", Description: "Celestial wedding ceremony of the Lord", Benefits: "Blessings for marriage and relationships", Includes: "Video proof, Prasad, Aashirwad box", IsActive: true},
		},
	},
	{
		Name: "Somnath", Location: "Prabhas Patan", State: "Gujarat", Deity: "Lord Shiva",
		ImageURL:     "temples/somnath.jpg",
		Description:  "The first among the twelve Jyotirlingas, located at the shore of the Arabian Sea.",
		Significance: "Mentioned in ancient scriptures. Rebuilt multiple times, symbolizing eternal faith.",
		StartingPrice: 1300, IsFeatured: true, IsActive: true,
		Pujas: []models.TemplePuja{
			{Name: "Jyotirlinga Puja", Price: 1300, Duration: "2 hours", Description: "Special puja at the sacred Jyotirlinga", Benefits: "Liberation from sins, spiritual progress", Includes: "Video proof, Prasad, Aashirwad box", IsPopular: true, IsActive: true},
			{Name: "Aarti", Price: 800, Duration: "30 minutes", Description: "Participate in the temple aarti", Benefits: "Divine blessings and peace", Includes: "Video proof, Prasad", IsPopular: true, IsActive: true},
			{Name: "Laghu Rudrabhishek", Price: 2100, Duration: "2 hours", Description: "Abbreviated Rudrabhishek ceremony", Benefits: "Removal of obstacles, health benefits", Includes: "Video proof, Prasad, Bhasma", IsActive: true},
		},
	},
	{
		Name: "Shirdi Sai Baba", Location: "Shirdi", State: "Maharashtra", Deity: "Sai Baba",
		ImageURL:     "temples/shirdi.jfif",
		Description:  "The holy shrine of Sai Baba, who preached love, forgiveness, and helping others.",
		Significance: "Sai Baba is revered by devotees of all religions. \"Sabka Malik Ek\" - One God for all.",
		StartingPrice: 999, IsFeatured: true, IsActive: true,
		Pujas: []models.TemplePuja{
			{Name: "Kakad Aarti", Price: 999, Duration: "1 hour", Description: "Early morning aarti at 4:30 AM", Benefits: "Auspicious start, divine blessings", Includes: "Video proof, Prasad, Udi", IsPopular: true, IsActive: true},
			{Name: "Sai Puja", Price: 1500, Duration: "1-2 hours", Description: "Special puja with abhishek", Benefits: "Fulfillment of wishes, peace of mind", Includes: "Video proof, Prasad, Udi, Photo", IsPopular: true, IsActive: true},
			{Name: "Dhoop Aarti", Price: 800, Duration: "30 minutes", Description: "Evening aarti at sunset", Benefits: "Peaceful end to the day", Includes: "Video proof, Prasad", IsActive: true},
		},
	},
}

// Run upserts the demo catalog. Rows are matched by name (author for
// testimonials) so repeated runs update in place instead of duplicating.
// With reset, the catalog tables are wiped first.
func Run(db *gorm.DB, reset bool) error {
	if reset {
		if err := Reset(db); err != nil {
			return err
		}
	}

	for _, p := range pandits {
		if err := upsert(db, &models.Pandit{}, "name = ?", p.Name, &p); err != nil {
			return err
		}
	}
	for _, m := range materials {
		if err := upsert(db, &models.PujaMaterial{}, "name = ?", m.Name, &m); err != nil {
			return err
		}
	}
	for _, t := range testimonials {
		if err := upsert(db, &models.Testimonial{}, "author = ?", t.Author, &t); err != nil {
			return err
		}
	}
	for _, b := range bundles {
		if err := upsert(db, &models.Bundle{}, "name = ?", b.Name, &b); err != nil {
			return err
		}
	}

	for _, t := range temples {
		if err := seedTemple(db, t); err != nil {
			return err
		}
	}

	return EnsureAdmin(db)
}

// Reset wipes the catalog tables. Orders, bookings, users and admins are
// left alone.
func Reset(db *gorm.DB) error {
	tables := []interface{}{
		&models.TemplePuja{},
		&models.Temple{},
		&models.Pandit{},
		&models.PujaMaterial{},
		&models.Testimonial{},
		&models.Bundle{},
	}
	for _, table := range tables {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdmin creates the default back-office account when ADMIN_PASSWORD is
// set and no admin with that username exists yet.
func EnsureAdmin(db *gorm.DB) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	var existing models.Admin
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Username:     username,
		Email:        username + "@pujapath.local",
		PasswordHash: hash,
		IsSuperAdmin: true,
	}
	return db.Create(&admin).Error
}

func seedTemple(db *gorm.DB, t models.Temple) error {
	pujas := t.Pujas
	t.Pujas = nil

	var existing models.Temple
	err := db.Where("name = ?", t.Name).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(&t).Error; err != nil {
			return err
		}
		existing = t
	case err != nil:
		return err
	default:
		t.ID = existing.ID
		if err := db.Model(&existing).Updates(&t).Error; err != nil {
			return err
		}
	}

	for _, p := range pujas {
		p.TempleID = existing.ID
		if err := upsert(db, &models.TemplePuja{}, "temple_id = ? AND name = ?", []interface{}{existing.ID, p.Name}, &p); err != nil {
			return err
		}
	}
	return nil
}

func upsert(db *gorm.DB, model interface{}, query string, arg interface{}, row interface{}) error {
	args, ok := arg.([]interface{})
	if !ok {
		args = []interface{}{arg}
	}

	tx := db.Model(model).Where(query, args...).Updates(row)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected > 0 {
		return nil
	}
	return db.Create(row).Error
}
